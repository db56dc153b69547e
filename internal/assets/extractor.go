package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/metrics"
)

// dataURIPattern matches inline images in the supported encodings.
var dataURIPattern = regexp.MustCompile(`data:image/(png|jpe?g|gif|webp|svg\+xml|avif|bmp|x-icon);base64,([A-Za-z0-9+/]+={0,2})`)

var extensions = map[string]string{
	"png":     "png",
	"jpeg":    "jpg",
	"jpg":     "jpg",
	"gif":     "gif",
	"webp":    "webp",
	"svg+xml": "svg",
	"avif":    "avif",
	"bmp":     "bmp",
	"x-icon":  "ico",
}

// PathStyle selects how rewritten references are expressed.
type PathStyle int

const (
	// PathRelative prefixes one "../" per directory level of the consuming file.
	PathRelative PathStyle = iota
	// PathRootAbsolute references assets from the site root ("/assets/image-1.png").
	PathRootAbsolute
)

// DefaultWorkers is the optimization concurrency used when none is
// configured: one worker per CPU.
func DefaultWorkers() int { return max(runtime.NumCPU(), 1) }

// Config configures an Extractor.
type Config struct {
	Profile   export.OptimizationProfile
	PathStyle PathStyle
	// OutputDir is where asset files are placed in the output tree.
	OutputDir string
	// PublicPath is the URL directory used with PathRootAbsolute; defaults to "/assets".
	PublicPath string
	Workers    int
	Progress   export.ProgressFunc
	Recorder   metrics.Recorder
	Optimizer  Optimizer
}

// Asset is one extracted, deduplicated image.
type Asset struct {
	Number    int
	Name      string // file name, e.g. image-3.png
	MIME      string // source subtype, e.g. png or svg+xml
	Original  []byte
	Data      []byte // stored bytes: optimized when strictly smaller, else Original
	Optimized bool

	payload string
	hash    uint64
	srcExt string
}

// Failure records an asset that could not be extracted or optimized.
type Failure struct {
	Asset  string // asset name, or a payload prefix when no name was assigned
	Reason string
	Fatal  bool // true when the payload was left in place
}

// Stats summarize the extraction.
type Stats struct {
	Count          int
	OriginalBytes  int64
	OptimizedBytes int64
}

// Extractor is the per-export extraction state. It is not safe for
// concurrent use; optimization parallelism is internal.
type Extractor struct {
	cfg      Config
	index    map[uint64][]int // xxhash of the base64 payload -> asset positions
	assets   []*Asset
	bad      map[string]bool
	failures []Failure
	reported int
}

// NewExtractor creates an Extractor. Zero-valued config fields get defaults.
func NewExtractor(cfg Config) *Extractor {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "assets"
	}
	if cfg.PublicPath == "" {
		cfg.PublicPath = "/assets"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NoopRecorder{}
	}
	if cfg.Optimizer == nil {
		cfg.Optimizer = ImageOptimizer{}
	}
	cfg.OutputDir = strings.Trim(export.CleanPath(cfg.OutputDir), "/")
	cfg.PublicPath = "/" + strings.Trim(cfg.PublicPath, "/")
	return &Extractor{
		cfg:   cfg,
		index: make(map[uint64][]int),
		bad:   make(map[string]bool),
	}
}

// Process extracts inline images from files and returns a new list: every
// input file in order with references rewritten, followed by the asset files
// first discovered in this call. The input slice and its contents are not
// modified.
func (e *Extractor) Process(ctx context.Context, files []export.ExportedFile) ([]export.ExportedFile, error) {
	fresh, err := e.discover(ctx, files)
	if err != nil {
		return nil, err
	}
	if err := e.optimize(ctx, fresh); err != nil {
		return nil, err
	}

	out := make([]export.ExportedFile, 0, len(files)+len(fresh))
	for _, f := range files {
		if f.Binary {
			out = append(out, f)
			continue
		}
		out = append(out, e.rewrite(f))
	}
	for _, a := range fresh {
		out = append(out, export.BinaryFile(e.cfg.OutputDir+"/"+a.Name, a.Data))
	}
	return out, nil
}

// discover scans files in order and assigns numbers to unseen payloads.
func (e *Extractor) discover(ctx context.Context, files []export.ExportedFile) ([]*Asset, error) {
	var fresh []*Asset
	for _, f := range files {
		if f.Binary {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.CanceledError("asset extraction canceled").WithCause(err).WithContext("phase", string(export.PhaseExtractingImages)).Build()
		}
		for _, m := range dataURIPattern.FindAllSubmatchIndex(f.Content, -1) {
			mime := string(f.Content[m[2]:m[3]])
			payload := f.Content[m[4]:m[5]]
			key := string(payload)
			if e.lookup(key) != nil || e.bad[key] {
				continue
			}
			raw, err := decodePayload(payload)
			if err != nil {
				e.bad[key] = true
				e.failures = append(e.failures, Failure{Asset: payloadLabel(mime, payload), Reason: err.Error(), Fatal: true})
				e.cfg.Recorder.IncAssetResult(metrics.AssetFailed)
				slog.Warn("Skipping undecodable inline image", logfields.Path(f.Path), logfields.Asset(payloadLabel(mime, payload)), logfields.Error(err))
				continue
			}
			a := e.add(key, mime, raw)
			fresh = append(fresh, a)
			e.cfg.Progress.Emit(export.Progress{
				Phase:      export.PhaseExtractingImages,
				Current:    a.Number,
				Message:    "Found " + a.Name,
				ImageCount: len(e.assets),
			})
		}
	}
	return fresh, nil
}

// lookup finds the asset for a base64 payload. Keying on the payload alone
// makes aliases such as image/jpg and image/jpeg share one asset.
func (e *Extractor) lookup(payload string) *Asset {
	h := xxhash.Sum64String(payload)
	for _, i := range e.index[h] {
		if e.assets[i].payload == payload {
			return e.assets[i]
		}
	}
	return nil
}

func (e *Extractor) add(payload, mime string, raw []byte) *Asset {
	n := len(e.assets) + 1
	ext := extensions[mime]
	a := &Asset{
		Number:   n,
		Name:     "image-" + strconv.Itoa(n) + "." + ext,
		MIME:     mime,
		Original: raw,
		Data:     raw,
		payload:  payload,
		hash:     xxhash.Sum64String(payload),
		srcExt:   ext,
	}
	e.index[a.hash] = append(e.index[a.hash], len(e.assets))
	e.assets = append(e.assets, a)
	return a
}

// optimize runs the optimizer over fresh assets on the worker pool and
// applies results in asset order.
func (e *Extractor) optimize(ctx context.Context, fresh []*Asset) error {
	if len(fresh) == 0 {
		return nil
	}
	workers := min(e.cfg.Workers, len(fresh))
	e.cfg.Recorder.SetOptimizeConcurrency(workers)

	done := 0
	results, err := runPool(ctx, workers, fresh, func(a *Asset) optimizeResult {
		data, ext, err := e.cfg.Optimizer.Optimize(a.Original, a.MIME, e.cfg.Profile)
		return optimizeResult{data: data, ext: ext, err: err}
	}, func(a *Asset) {
		done++
		e.cfg.Progress.Emit(export.Progress{
			Phase:      export.PhaseExtractingImages,
			Current:    done,
			Total:      len(fresh),
			Message:    "Optimized image " + strconv.Itoa(done) + " of " + strconv.Itoa(len(fresh)),
			ImageCount: len(e.assets),
		})
	})
	if err != nil {
		return errors.CanceledError("asset optimization canceled").WithCause(err).WithContext("phase", string(export.PhaseExtractingImages)).Build()
	}

	for i, a := range fresh {
		res := results[i]
		switch {
		case res.err != nil:
			e.failures = append(e.failures, Failure{Asset: a.Name, Reason: res.err.Error()})
			e.cfg.Recorder.IncAssetResult(metrics.AssetFailed)
			slog.Warn("Image optimization failed; keeping original", logfields.Asset(a.Name), logfields.Error(res.err))
		case res.data != nil && len(res.data) < len(a.Original):
			a.Data = res.data
			a.Optimized = true
			if res.ext != "" && res.ext != a.srcExt {
				a.Name = "image-" + strconv.Itoa(a.Number) + "." + res.ext
			}
			e.cfg.Recorder.IncAssetResult(metrics.AssetOptimized)
		default:
			e.cfg.Recorder.IncAssetResult(metrics.AssetKept)
		}
		e.cfg.Recorder.AddAssetBytes(int64(len(a.Original)), int64(len(a.Data)))
	}
	return nil
}

// rewrite replaces every extracted payload in f with a path to its asset.
func (e *Extractor) rewrite(f export.ExportedFile) export.ExportedFile {
	if !bytes.Contains(f.Content, []byte("data:image/")) {
		return export.ExportedFile{Path: f.Path, Content: append([]byte(nil), f.Content...)}
	}
	prefix := e.cfg.PublicPath + "/"
	if e.cfg.PathStyle == PathRelative {
		prefix = export.RelativePrefix(f.Depth()) + e.cfg.OutputDir + "/"
	}
	content := dataURIPattern.ReplaceAllFunc(f.Content, func(m []byte) []byte {
		a := e.lookup(payloadOf(string(m)))
		if a == nil {
			return m
		}
		return []byte(prefix + a.Name)
	})
	return export.ExportedFile{Path: f.Path, Content: content}
}

// Assets returns the extracted assets in number order.
func (e *Extractor) Assets() []Asset {
	out := make([]Asset, len(e.assets))
	for i, a := range e.assets {
		out[i] = *a
	}
	return out
}

// Failures returns recorded per-asset failures.
func (e *Extractor) Failures() []Failure {
	out := make([]Failure, len(e.failures))
	copy(out, e.failures)
	return out
}

// RecordIssues adds the failures not yet recorded to report and returns how
// many were added.
func (e *Extractor) RecordIssues(report *export.Report, stage export.StageName) int {
	if report == nil {
		return 0
	}
	added := 0
	for _, f := range e.failures[e.reported:] {
		code := export.IssueAssetOptimize
		if f.Fatal {
			code = export.IssueAssetDecode
		}
		report.AddIssue(code, stage, export.SeverityWarning, f.Asset, f.Reason)
		added++
	}
	e.reported = len(e.failures)
	return added
}

// Stats totals the extracted assets.
func (e *Extractor) Stats() Stats {
	s := Stats{Count: len(e.assets)}
	for _, a := range e.assets {
		s.OriginalBytes += int64(len(a.Original))
		s.OptimizedBytes += int64(len(a.Data))
	}
	return s
}

// Lookup returns the asset name for an inline data URI, if it was extracted.
func (e *Extractor) Lookup(uri string) (string, bool) {
	if a := e.lookup(payloadOf(uri)); a != nil {
		return a.Name, true
	}
	return "", false
}

// payloadOf returns the base64 part of a data URI matched by dataURIPattern.
func payloadOf(uri string) string {
	if _, p, ok := strings.Cut(uri, ";base64,"); ok {
		return p
	}
	return uri
}

// Pattern exposes the inline image matcher for callers substituting references themselves.
func Pattern() *regexp.Regexp { return dataURIPattern }

func decodePayload(p []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(p)))
	n, err := base64.StdEncoding.Decode(out, p)
	if err == nil && n > 0 {
		return out[:n], nil
	}
	raw := bytes.TrimRight(p, "=")
	out = make([]byte, base64.RawStdEncoding.DecodedLen(len(raw)))
	n, rawErr := base64.RawStdEncoding.Decode(out, raw)
	if rawErr != nil || n == 0 {
		if err == nil {
			err = fmt.Errorf("empty payload")
		}
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return out[:n], nil
}

func payloadLabel(mime string, payload []byte) string {
	const keep = 16
	if len(payload) > keep {
		payload = payload[:keep]
	}
	return "data:image/" + mime + ";base64," + string(payload) + "..."
}

// Decode splits a data URI matched by Pattern into its MIME type and payload.
func Decode(uri string) (string, []byte, error) {
	m := dataURIPattern.FindStringSubmatch(uri)
	if m == nil || m[0] != uri {
		return "", nil, fmt.Errorf("not an image data URI")
	}
	data, err := decodePayload([]byte(m[2]))
	if err != nil {
		return "", nil, err
	}
	return "image/" + m[1], data, nil
}
