package pipeline

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/studyplan/internal/config"
	"github.com/dgallion1/studyplan/internal/fileutil"
	"github.com/dgallion1/studyplan/internal/parser"
	"github.com/dgallion1/studyplan/internal/plan"
	"github.com/dgallion1/studyplan/internal/publish"
)

// Pipeline turns the study-plan page into its data files.
type Pipeline struct {
	cfg       config.Config
	extractor *parser.Extractor
	order     []string
	log       *slog.Logger
}

// Summary describes one extraction run.
type Summary struct {
	Items   int          `json:"items"`
	Dropped int          `json:"dropped"`
	Stats   parser.Stats `json:"stats"`
	Output  string       `json:"output"`
	SHA256  string       `json:"sha256"`
	Changed bool         `json:"changed"`
}

func New(cfg config.Config, log *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		extractor: parser.NewExtractor(parser.NewLabeler(cfg.Labels)),
		order:     plan.KeyOrder(cfg.KeyOrder...),
		log:       log,
	}
}

// Extraction is the filtered, ordered content of the page.
type Extraction struct {
	Items   []plan.Item
	Stats   parser.Stats
	Dropped int
}

// Extract reads the page and returns the retained rows in canonical field
// order. Invalid UTF-8 in the page is dropped.
func (p *Pipeline) Extract() (Extraction, error) {
	raw, err := os.ReadFile(p.cfg.InputPath())
	if err != nil {
		return Extraction{}, fmt.Errorf("read input: %w", err)
	}
	doc := strings.ToValidUTF8(string(raw), "")

	res, err := p.extractor.Parse(strings.NewReader(doc))
	if err != nil {
		return Extraction{}, fmt.Errorf("extract %s: %w", p.cfg.InputPath(), err)
	}

	kept, dropped := plan.Filter(res.Items)
	return Extraction{
		Items:   plan.Order(kept, p.order),
		Stats:   res.Stats,
		Dropped: dropped,
	}, nil
}

// Run extracts the page and writes the data script. The output is only
// rewritten when its bytes change.
func (p *Pipeline) Run() (Summary, error) {
	log := p.log.With("input", p.cfg.InputPath(), "output", p.cfg.OutputPath())

	// Phase 1: Extract
	ex, err := p.Extract()
	if err != nil {
		log.Error("extraction failed", "error", err)
		return Summary{}, err
	}
	log.Info("extracted rows",
		"sections", ex.Stats.Sections,
		"tables", ex.Stats.Tables,
		"data_rows", ex.Stats.DataRows,
		"items", len(ex.Items),
		"dropped", ex.Dropped,
	)

	// Phase 2: Encode
	var buf bytes.Buffer
	if err := plan.EncodeScript(&buf, ex.Items); err != nil {
		return Summary{}, fmt.Errorf("encode output: %w", err)
	}
	out := buf.Bytes()

	sum := Summary{
		Items:   len(ex.Items),
		Dropped: ex.Dropped,
		Stats:   ex.Stats,
		Output:  p.cfg.OutputPath(),
		SHA256:  ContentHashHex(out),
	}

	// Phase 3: Write
	if fileutil.SameContent(sum.Output, out) {
		log.Info("output unchanged", "sha256", sum.SHA256)
		return sum, nil
	}
	if err := fileutil.WriteAtomic(sum.Output, out, 0o644); err != nil {
		log.Error("write failed", "error", err)
		return Summary{}, fmt.Errorf("write output: %w", err)
	}
	sum.Changed = true
	log.Info("wrote output", "items", sum.Items, "bytes", len(out), "sha256", sum.SHA256)
	return sum, nil
}

// Inline publishes the data script as minified JSON and into the page.
func (p *Pipeline) Inline() (publish.Result, error) {
	res, err := publish.Inline(publish.Paths{
		Data:    p.cfg.OutputPath(),
		MinJSON: p.cfg.MinJSONPath(),
		Page:    p.cfg.InputPath(),
	})
	if err != nil {
		p.log.Error("inline failed", "error", err)
		return res, err
	}
	p.log.Info("inlined data",
		"items", res.Items,
		"min_json", p.cfg.MinJSONPath(),
		"min_bytes", res.MinBytes,
		"page", p.cfg.InputPath(),
	)
	return res, nil
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
