// Package wordfreq extracts frequency corpora from the wordfreq dataset.
package wordfreq

import (
	"archive/zip"
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/typeline/internal/corpus"
)

const pypiEndpoint = "https://pypi.org/pypi/wordfreq/json"

// Wheel describes a cached wordfreq wheel.
type Wheel struct {
	Version  string
	Path     string
	Filename string
	Cached   bool
}

type pypiResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	URLs []struct {
		URL         string `json:"url"`
		Filename    string `json:"filename"`
		Packagetype string `json:"packagetype"`
	} `json:"urls"`
}

// DownloadLatestWheel fetches the latest wordfreq wheel into cacheDir.
func DownloadLatestWheel(ctx context.Context, cacheDir string) (Wheel, error) {
	if cacheDir == "" {
		return Wheel{}, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Wheel{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	resp, err := httpRequest(ctx, pypiEndpoint)
	if err != nil {
		return Wheel{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Wheel{}, fmt.Errorf("unexpected pypi status: %s", resp.Status)
	}

	var payload pypiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Wheel{}, fmt.Errorf("failed to decode pypi response: %w", err)
	}
	if payload.Info.Version == "" {
		return Wheel{}, fmt.Errorf("missing version in pypi response")
	}

	var url, filename string
	for _, u := range payload.URLs {
		if u.Packagetype != "bdist_wheel" {
			continue
		}
		url, filename = u.URL, u.Filename
		if strings.HasSuffix(u.Filename, "py3-none-any.whl") {
			break
		}
	}
	if url == "" {
		return Wheel{}, fmt.Errorf("no suitable wordfreq wheel found")
	}

	destPath := filepath.Join(cacheDir, filename)
	if _, err := os.Stat(destPath); err == nil {
		return Wheel{Version: payload.Info.Version, Path: destPath, Filename: filename, Cached: true}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Wheel{}, fmt.Errorf("failed to stat cached wheel: %w", err)
	}

	tmpFile, err := os.CreateTemp(cacheDir, "wordfreq-*.whl")
	if err != nil {
		return Wheel{}, fmt.Errorf("failed to create temp wheel: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	wheelResp, err := httpRequest(ctx, url)
	if err != nil {
		return Wheel{}, err
	}
	defer func() {
		_ = wheelResp.Body.Close()
	}()
	if wheelResp.StatusCode != http.StatusOK {
		return Wheel{}, fmt.Errorf("unexpected wheel status: %s", wheelResp.Status)
	}

	if _, err := io.Copy(tmpFile, wheelResp.Body); err != nil {
		return Wheel{}, fmt.Errorf("failed to download wheel: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Wheel{}, fmt.Errorf("failed to close temp wheel: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return Wheel{}, fmt.Errorf("failed to move wheel into cache: %w", err)
	}

	return Wheel{Version: payload.Info.Version, Path: destPath, Filename: filename, Cached: false}, nil
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// ListLanguages returns the language codes available in the wheel, sorted.
func ListLanguages(wheelPath string) ([]string, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	seen := map[string]struct{}{}
	for _, file := range reader.File {
		lang, _ := parseDataFileName(file.Name)
		if lang != "" {
			seen[lang] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("no languages found in wordfreq wheel")
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

// parseDataFileName extracts (lang, listType) from a wheel data path, or
// empty strings when the path is not a word list.
func parseDataFileName(name string) (string, string) {
	name = strings.ToLower(name)
	if !strings.HasPrefix(name, "wordfreq/data/") {
		return "", ""
	}
	base := strings.TrimPrefix(name, "wordfreq/data/")
	base = strings.TrimSuffix(base, ".gz")
	if !strings.HasSuffix(base, ".msgpack") {
		return "", ""
	}
	base = strings.TrimSuffix(base, ".msgpack")
	for _, listType := range []string{"large", "small"} {
		if strings.HasPrefix(base, listType+"_") {
			return strings.TrimPrefix(base, listType+"_"), listType
		}
	}
	return "", ""
}

// ExtractFrequencies decodes the wheel's word list for lang into weighted
// corpus entries, most frequent first, at most limit entries. The large
// list is preferred over the small one.
func ExtractFrequencies(wheelPath, lang string, limit int) ([]corpus.Entry, error) {
	if wheelPath == "" {
		return nil, fmt.Errorf("wheel path is required")
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return nil, fmt.Errorf("language is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	dataFile := selectDataFile(reader.File, lang)
	if dataFile == nil {
		return nil, fmt.Errorf("no word list found for %s", lang)
	}

	rc, err := dataFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	entries, err := decodeFrequencies(dataFile.Name, rc)
	if err != nil {
		return nil, err
	}

	out := make([]corpus.Entry, 0, limit)
	seen := map[string]struct{}{}
	for _, e := range entries {
		if _, ok := seen[e.Word]; ok {
			continue
		}
		if !keepWord(e.Word) {
			continue
		}
		seen[e.Word] = struct{}{}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable words found for %s", lang)
	}
	return out, nil
}

func selectDataFile(files []*zip.File, lang string) *zip.File {
	var small *zip.File
	for _, file := range files {
		fileLang, listType := parseDataFileName(file.Name)
		if fileLang != lang {
			continue
		}
		if listType == "large" {
			return file
		}
		small = file
	}
	return small
}

// decodeFrequencies reads the cB-bucketed wordfreq format: a top-level
// array whose header map is followed by one word list per centibel
// bucket, most frequent bucket first.
func decodeFrequencies(name string, r io.Reader) ([]corpus.Entry, error) {
	var reader io.Reader = bufio.NewReader(r)
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip data: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		reader = bufio.NewReader(gz)
	}

	root, err := decodeValue(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode msgpack data: %w", err)
	}
	items, ok := root.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected msgpack root type %T", root)
	}

	var entries []corpus.Entry
	bucket := 0
	for _, item := range items {
		words, ok := item.([]interface{})
		if !ok {
			// Header maps and other metadata are skipped.
			continue
		}
		weight := bucketWeight(bucket)
		for _, w := range words {
			word, ok := w.(string)
			if !ok {
				continue
			}
			entries = append(entries, corpus.Entry{Word: word, Weight: weight})
		}
		bucket++
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("wordfreq data contained no entries")
	}
	return entries, nil
}

// bucketWeight converts a centibel bucket index into a relative sampling
// weight. Each bucket is 1 cB rarer than the previous one.
func bucketWeight(bucket int) float64 {
	return math.Pow(10, -float64(bucket)/100)
}

func keepWord(word string) bool {
	length := utf8.RuneCountInString(word)
	if length < 2 || length > 20 {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// WriteCorpus writes entries as "word weight" lines, atomically.
func WriteCorpus(path string, entries []corpus.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create corpus dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "corpus-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp corpus: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, e := range entries {
		if _, err := fmt.Fprintf(writer, "%s %s\n", e.Word, strconv.FormatFloat(e.Weight, 'g', 8, 64)); err != nil {
			return fmt.Errorf("failed to write corpus: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush corpus: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close corpus: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	return nil
}

// WriteAttribution writes attribution and license files next to the
// generated corpora.
func WriteAttribution(wheelPath, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	attrText := strings.Join([]string{
		"Frequency corpora generated from the wordfreq dataset.",
		"Source: https://github.com/rspeer/wordfreq",
		"Data license: Creative Commons Attribution-ShareAlike 4.0 International (CC BY-SA 4.0).",
		"https://creativecommons.org/licenses/by-sa/4.0/",
		"Changes were made: filtered to alphanumeric words and truncated to the requested size.",
		"Please attribute wordfreq when redistributing derived word lists.",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(outDir, "ATTRIBUTION.txt"), []byte(attrText), 0o644); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}

	licenseText, err := readWheelLicense(wheelPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "LICENSE.txt"), licenseText, 0o644); err != nil {
		return fmt.Errorf("failed to write license: %w", err)
	}
	return nil
}

func readWheelLicense(wheelPath string) ([]byte, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel for license: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	for _, file := range reader.File {
		if !strings.Contains(strings.ToLower(file.Name), "license") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open license: %w", err)
		}
		data, err := io.ReadAll(rc)
		if cerr := rc.Close(); cerr != nil {
			// Best-effort close after read.
			_ = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read license: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("license file not found in wheel")
}
