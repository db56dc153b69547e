package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	stdErrors "errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

func encodePNG(t *testing.T, img image.Image, level png.CompressionLevel) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, (&png.Encoder{CompressionLevel: level}).Encode(&buf, img))
	return buf.Bytes()
}

func gradient(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func noise(w, h int) image.Image {
	r := rand.New(rand.NewSource(42))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(r.Intn(256))
	}
	return img
}

func dataURI(mime string, raw []byte) string {
	return "data:image/" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

func disabled() export.OptimizationProfile {
	p := export.DefaultProfile()
	p.Enabled = false
	return p
}

func TestDedupAcrossFilesWithRelativeDepth(t *testing.T) {
	one := dataURI("png", []byte("first-image-bytes"))
	two := dataURI("png", []byte("second-image-bytes"))
	files := []export.ExportedFile{
		export.TextFile("index.html", `<img src="`+one+`">`),
		export.TextFile("about/index.html", `<img src="`+two+`"><img src="`+one+`">`),
		export.TextFile("fr/about/index.html", `<img src="`+one+`">`),
	}

	x := NewExtractor(Config{Profile: disabled()})
	out, err := x.Process(context.Background(), files)
	require.NoError(t, err)

	require.Len(t, out, 5)
	assert.Equal(t, `<img src="assets/image-1.png">`, out[0].Text())
	assert.Equal(t, `<img src="../assets/image-2.png"><img src="../assets/image-1.png">`, out[1].Text())
	assert.Equal(t, `<img src="../../assets/image-1.png">`, out[2].Text())
	assert.Equal(t, "assets/image-1.png", out[3].Path)
	assert.Equal(t, []byte("first-image-bytes"), out[3].Content)
	assert.True(t, out[3].Binary)
	assert.Equal(t, "assets/image-2.png", out[4].Path)
	assert.Equal(t, 2, x.Stats().Count)
}

func TestSharedPayloadInHeroAndGallery(t *testing.T) {
	raw := encodePNG(t, gradient(8, 8), png.DefaultCompression)
	uri := dataURI("png", raw)
	page := `<section class="sp-hero" style="background-image:url(&#39;` + uri + `&#39;)"></section>` +
		`<div class="sp-gallery"><figure><img src="` + uri + `" alt=""></figure></div>`

	x := NewExtractor(Config{Profile: export.DefaultProfile()})
	out, err := x.Process(context.Background(), []export.ExportedFile{export.TextFile("index.html", page)})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "assets/image-1.png", out[1].Path)
	assert.Equal(t, 2, strings.Count(out[0].Text(), "assets/image-1.png"))
	assert.NotContains(t, out[0].Text(), "base64")
	assert.Contains(t, out[0].Text(), "url(&#39;assets/image-1.png&#39;)")
}

func TestDisabledProfileKeepsExactBytes(t *testing.T) {
	raw := encodePNG(t, gradient(600, 400), png.NoCompression)
	x := NewExtractor(Config{Profile: disabled()})
	out, err := x.Process(context.Background(), []export.ExportedFile{export.TextFile("index.html", dataURI("png", raw))})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, raw, out[1].Content)
	stats := x.Stats()
	assert.Equal(t, stats.OriginalBytes, stats.OptimizedBytes)
}

func TestOptimizationShrinksLargeImages(t *testing.T) {
	raw := encodePNG(t, gradient(800, 400), png.NoCompression)
	p := export.DefaultProfile()
	p.MaxWidth = 200
	p.MinSizeBytes = 0

	x := NewExtractor(Config{Profile: p})
	_, err := x.Process(context.Background(), []export.ExportedFile{export.TextFile("index.html", dataURI("png", raw))})
	require.NoError(t, err)

	a := x.Assets()[0]
	assert.True(t, a.Optimized)
	assert.Less(t, len(a.Data), len(raw))
	decoded, _, err := image.Decode(bytes.NewReader(a.Data))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())
}

func TestConvertFormatRenamesOpaqueImagesToJPEG(t *testing.T) {
	raw := encodePNG(t, gradient(400, 300), png.NoCompression)
	p := export.DefaultProfile()
	p.ConvertFormat = true
	p.MinSizeBytes = 0

	x := NewExtractor(Config{Profile: p})
	out, err := x.Process(context.Background(), []export.ExportedFile{export.TextFile("a/index.html", `<img src="`+dataURI("png", raw)+`">`)})
	require.NoError(t, err)

	assert.Equal(t, `<img src="../assets/image-1.jpg">`, out[0].Text())
	assert.Equal(t, "assets/image-1.jpg", out[1].Path)
}

func TestOptimizationNeverIncreasesSize(t *testing.T) {
	p := export.DefaultProfile()
	p.MinSizeBytes = 0
	p.ConvertFormat = true
	files := []export.ExportedFile{
		export.TextFile("index.html", dataURI("png", encodePNG(t, noise(64, 64), png.BestCompression))+" "+
			dataURI("png", encodePNG(t, gradient(300, 300), png.NoCompression))+" "+
			dataURI("png", encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 2, 2)), png.BestCompression))+" "+
			dataURI("svg+xml", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))),
	}

	x := NewExtractor(Config{Profile: p, Workers: 3})
	_, err := x.Process(context.Background(), files)
	require.NoError(t, err)

	assets := x.Assets()
	require.Len(t, assets, 4)
	for _, a := range assets {
		assert.LessOrEqual(t, len(a.Data), len(a.Original), a.Name)
	}
	assert.Equal(t, "image-4.svg", assets[3].Name)
	assert.False(t, assets[3].Optimized)
}

func TestUndecodablePayloadIsLeftInPlace(t *testing.T) {
	bad := "data:image/png;base64,A"
	good := dataURI("gif", []byte("GIF89a"))
	x := NewExtractor(Config{Profile: disabled()})
	out, err := x.Process(context.Background(), []export.ExportedFile{
		export.TextFile("index.html", `<img src="`+bad+`"><img src="`+good+`">`),
	})
	require.NoError(t, err)

	assert.Equal(t, `<img src="`+bad+`"><img src="assets/image-1.gif">`, out[0].Text())
	require.Len(t, x.Failures(), 1)
	assert.True(t, x.Failures()[0].Fatal)
	assert.Equal(t, 1, x.Stats().Count)
}

func TestMIMEAliasesShareOneAsset(t *testing.T) {
	raw := []byte("same-jpeg-bytes")
	files := []export.ExportedFile{
		export.TextFile("index.html", `<img src="`+dataURI("jpeg", raw)+`">`),
		export.TextFile("about/index.html", `<img src="`+dataURI("jpg", raw)+`">`),
	}
	x := NewExtractor(Config{Profile: disabled()})
	out, err := x.Process(context.Background(), files)
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, `<img src="assets/image-1.jpg">`, out[0].Text())
	assert.Equal(t, `<img src="../assets/image-1.jpg">`, out[1].Text())
	assert.Equal(t, 1, x.Stats().Count)

	name, ok := x.Lookup(dataURI("jpg", raw))
	require.True(t, ok)
	assert.Equal(t, "image-1.jpg", name)
}

// pngHeader returns a PNG holding only a signature and an IHDR chunk
// declaring w x h grayscale pixels.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth; color type, compression, filter and interlace stay 0

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	buf.Write(make([]byte, 64))
	return buf.Bytes()
}

func TestOptimizerRejectsOversizedImages(t *testing.T) {
	p := export.DefaultProfile()
	p.MinSizeBytes = 0

	t.Run("declared dimensions", func(t *testing.T) {
		data, ext, err := ImageOptimizer{}.Optimize(pngHeader(16000, 16000), "png", p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pixel limit")
		assert.Nil(t, data)
		assert.Empty(t, ext)
	})

	t.Run("custom limit", func(t *testing.T) {
		img := encodePNG(t, gradient(100, 100), png.NoCompression)
		_, _, err := ImageOptimizer{MaxPixels: 5000}.Optimize(img, "png", p)
		require.Error(t, err)

		data, _, err := ImageOptimizer{MaxPixels: 10000}.Optimize(img, "png", p)
		require.NoError(t, err)
		assert.NotNil(t, data)
	})

	t.Run("extractor keeps original", func(t *testing.T) {
		bomb := pngHeader(60000, 60000)
		x := NewExtractor(Config{Profile: p})
		out, err := x.Process(context.Background(), []export.ExportedFile{
			export.TextFile("index.html", `<img src="`+dataURI("png", bomb)+`">`),
		})
		require.NoError(t, err)

		require.Len(t, out, 2)
		assert.Equal(t, `<img src="assets/image-1.png">`, out[0].Text())
		assert.Equal(t, bomb, out[1].Content)
		require.Len(t, x.Failures(), 1)
		assert.False(t, x.Failures()[0].Fatal)
		assert.Contains(t, x.Failures()[0].Reason, "pixel limit")
	})
}

type failingOptimizer struct{}

func (failingOptimizer) Optimize([]byte, string, export.OptimizationProfile) ([]byte, string, error) {
	return nil, "", stdErrors.New("corrupt image")
}

type panickingOptimizer struct{}

func (panickingOptimizer) Optimize([]byte, string, export.OptimizationProfile) ([]byte, string, error) {
	panic("decoder bug")
}

func TestOptimizerFailureKeepsOriginal(t *testing.T) {
	for name, opt := range map[string]Optimizer{"error": failingOptimizer{}, "panic": panickingOptimizer{}} {
		t.Run(name, func(t *testing.T) {
			raw := []byte("not really a png")
			x := NewExtractor(Config{Profile: export.DefaultProfile(), Optimizer: opt})
			out, err := x.Process(context.Background(), []export.ExportedFile{export.TextFile("index.html", dataURI("png", raw))})
			require.NoError(t, err)

			assert.Equal(t, raw, out[1].Content)
			require.Len(t, x.Failures(), 1)
			assert.False(t, x.Failures()[0].Fatal)
		})
	}
}

func TestProcessSharesStateAcrossCalls(t *testing.T) {
	one := dataURI("png", []byte("one"))
	two := dataURI("webp", []byte("two"))
	x := NewExtractor(Config{Profile: disabled(), PathStyle: PathRootAbsolute, OutputDir: "public/assets"})

	first, err := x.Process(context.Background(), []export.ExportedFile{export.TextFile("src/pages/Home.tsx", one)})
	require.NoError(t, err)
	second, err := x.Process(context.Background(), []export.ExportedFile{export.TextFile("src/pages/About.tsx", two+" "+one)})
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, "/assets/image-1.png", first[0].Text())
	assert.Equal(t, "public/assets/image-1.png", first[1].Path)

	require.Len(t, second, 2, "already extracted assets are not emitted again")
	assert.Equal(t, "/assets/image-2.webp /assets/image-1.png", second[0].Text())
	assert.Equal(t, "public/assets/image-2.webp", second[1].Path)
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	uri := dataURI("png", []byte("payload"))
	content := []byte(`<img src="` + uri + `">`)
	files := []export.ExportedFile{{Path: "index.html", Content: content}}
	before := append([]byte(nil), content...)

	_, err := NewExtractor(Config{Profile: disabled()}).Process(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, before, files[0].Content)
	assert.Len(t, files, 1)
}

func TestNumberingIsDeterministic(t *testing.T) {
	var uris []string
	for i := 0; i < 12; i++ {
		uris = append(uris, dataURI("png", encodePNG(t, gradient(20+i, 20), png.NoCompression)))
	}
	files := []export.ExportedFile{export.TextFile("index.html", strings.Join(uris, "\n"))}
	p := export.DefaultProfile()
	p.MinSizeBytes = 0

	run := func() []export.ExportedFile {
		out, err := NewExtractor(Config{Profile: p, Workers: 4}).Process(context.Background(), files)
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, run(), run())
}

func TestProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExtractor(Config{Profile: disabled()}).Process(ctx, []export.ExportedFile{export.TextFile("index.html", dataURI("png", []byte("x")))})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryCanceled))
}

func TestProgressEvents(t *testing.T) {
	var events []export.Progress
	x := NewExtractor(Config{Profile: disabled(), Progress: func(p export.Progress) { events = append(events, p) }})
	_, err := x.Process(context.Background(), []export.ExportedFile{
		export.TextFile("index.html", dataURI("png", []byte("a"))+dataURI("png", []byte("bb"))),
	})
	require.NoError(t, err)

	require.Len(t, events, 4)
	for _, ev := range events {
		assert.Equal(t, export.PhaseExtractingImages, ev.Phase)
	}
	assert.Equal(t, "Found image-1.png", events[0].Message)
	assert.Equal(t, 2, events[3].Total)
}

func TestRecordIssuesAddsEachFailureOnce(t *testing.T) {
	x := NewExtractor(Config{Profile: export.DefaultProfile(), Optimizer: failingOptimizer{}})
	report := export.NewReport("t", export.TargetStatic)

	_, err := x.Process(context.Background(), []export.ExportedFile{
		export.TextFile("index.html", `data:image/png;base64,A `+dataURI("png", []byte("xx"))),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, x.RecordIssues(report, export.StageExtractImages))
	assert.Equal(t, 0, x.RecordIssues(report, export.StageExtractImages))

	codes := []export.IssueCode{report.Issues[0].Code, report.Issues[1].Code}
	assert.ElementsMatch(t, []export.IssueCode{export.IssueAssetDecode, export.IssueAssetOptimize}, codes)
	assert.Equal(t, 0, x.RecordIssues(nil, export.StageExtractImages))
}

func TestNewExtractorDefaults(t *testing.T) {
	x := NewExtractor(Config{})
	assert.Equal(t, runtime.NumCPU(), x.cfg.Workers)
	assert.Equal(t, DefaultWorkers(), x.cfg.Workers)
	assert.Equal(t, "assets", x.cfg.OutputDir)
	assert.Equal(t, "/assets", x.cfg.PublicPath)

	x = NewExtractor(Config{Workers: 2})
	assert.Equal(t, 2, x.cfg.Workers)
}
