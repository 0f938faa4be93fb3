package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weaksignal/lfkit/candidate"
	"github.com/weaksignal/lfkit/corpus"
	"github.com/weaksignal/lfkit/document"
	"github.com/weaksignal/lfkit/label"
	"github.com/weaksignal/lfkit/learn"
	pkgerrors "github.com/weaksignal/lfkit/pkg/errors"
)

var (
	fruitTerms = map[string]bool{"apple": true, "banana": true}
	metalTerms = map[string]bool{"copper": true, "iron": true}
)

// fixtureDocs builds a corpus where fruit mentions are followed by "tastes
// sweet" and metal mentions by "feels cold", so the two classes are cleanly
// separable from context features.
func fixtureDocs() []*document.Document {
	specs := []struct{ name, text string }{
		{"train0", "apple tastes sweet"},
		{"train1", "banana tastes sweet"},
		{"train2", "apple tastes sweet"},
		{"train3", "banana tastes sweet"},
		{"train4", "copper feels cold"},
		{"train5", "iron feels cold"},
		{"train6", "copper feels cold"},
		{"train7", "iron feels cold"},
		{"dev0", "apple tastes sweet"},
		{"dev1", "copper feels cold"},
		{"test0", "banana tastes sweet"},
		{"test1", "iron feels cold"},
	}
	docs := make([]*document.Document, len(specs))
	for i, s := range specs {
		docs[i] = corpus.TextDocument(s.name, s.text)
	}
	return docs
}

func assignByName(d *document.Document) Split {
	switch {
	case strings.HasPrefix(d.Name, "dev"):
		return Dev
	case strings.HasPrefix(d.Name, "test"):
		return Test
	}
	return Train
}

func fixtureExtractor(t *testing.T) *candidate.Extractor {
	t.Helper()
	dict := candidate.NewDictionaryMatch([]string{"apple", "banana", "copper", "iron"})
	ex, err := candidate.NewExtractor("mentions",
		[]candidate.Space{candidate.Ngrams{NMax: 1}},
		[]candidate.Matcher{dict})
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	return ex
}

func spanWord(c *document.Candidate) string {
	return c.Span(0).Text()
}

func lfFruit() label.LF {
	return label.LF{Name: "lf_fruit", F: func(c *document.Candidate) (int, error) {
		if fruitTerms[spanWord(c)] {
			return 1, nil
		}
		return 0, nil
	}}
}

func lfMetal() label.LF {
	return label.LF{Name: "lf_metal", F: func(c *document.Candidate) (int, error) {
		if metalTerms[spanWord(c)] {
			return -1, nil
		}
		return 0, nil
	}}
}

func goldFor(cands []*document.Candidate) label.Gold {
	g := make(label.Gold)
	for _, c := range cands {
		if fruitTerms[spanWord(c)] {
			g[c.Key()] = 1
		} else {
			g[c.Key()] = -1
		}
	}
	return g
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.NEpochs = 500
	cfg.LRRange = [2]float64{0.5, 0.5}
	cfg.L1Range = [2]float64{1e-9, 1e-9}
	cfg.L2Range = [2]float64{1e-9, 1e-9}
	cfg.MarginalsPath = filepath.Join(dir, "marginals.gob")
	cfg.MarginalsPNG = filepath.Join(dir, "marginals.png")
	p := New(cfg)

	if err := p.Parse(context.Background(), corpus.Static(fixtureDocs())); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := p.Extract(fixtureExtractor(t), assignByName); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for split, want := range map[Split]int{Train: 8, Dev: 2, Test: 2} {
		if got := len(p.Candidates(split)); got != want {
			t.Errorf("candidates[%v] = %d, want %d", split, got, want)
		}
	}

	if err := p.Featurize(); err != nil {
		t.Fatalf("Featurize: %v", err)
	}
	if rows, _ := p.Features(Train).Dims(); rows != 8 {
		t.Errorf("train feature rows = %d, want 8", rows)
	}

	// A twin of lf_fruit and an always-positive function exercise the
	// degenerate-column filters.
	twin := lfFruit()
	twin.Name = "lf_fruit_twin"
	always := label.LF{Name: "lf_always", F: func(*document.Candidate) (int, error) {
		return 1, nil
	}}
	if err := p.Label([]label.LF{lfFruit(), lfMetal(), twin, always}); err != nil {
		t.Fatalf("Label: %v", err)
	}
	var names []string
	for _, lf := range p.LFs() {
		names = append(names, lf.Name)
	}
	if diff := cmp.Diff([]string{"lf_fruit", "lf_metal"}, names); diff != "" {
		t.Errorf("filtered LFs mismatch (-want +got):\n%s", diff)
	}
	if _, cols := p.Labels(Train).Dims(); cols != 2 {
		t.Errorf("train label cols = %d, want 2", cols)
	}

	if err := p.Supervise(); err != nil {
		t.Fatalf("Supervise: %v", err)
	}
	m := p.Marginals()
	if len(m) != 8 {
		t.Fatalf("len(marginals) = %d, want 8", len(m))
	}
	for i, c := range p.Candidates(Train) {
		if fruitTerms[spanWord(c)] {
			if m[i] < 0.85 || m[i] > 0.92 {
				t.Errorf("marginal[%d] = %.4f, want around 0.88", i, m[i])
			}
		} else if m[i] > 0.15 || m[i] < 0.08 {
			t.Errorf("marginal[%d] = %.4f, want around 0.12", i, m[i])
		}
	}
	gen := p.GenerativeModel()
	if gen == nil {
		t.Fatal("GenerativeModel() = nil after weak supervision")
	}
	accs, err := gen.LFAccuracies()
	if err != nil {
		t.Fatalf("LFAccuracies: %v", err)
	}
	for j, acc := range accs {
		if acc < 0.85 || acc > 0.92 {
			t.Errorf("accuracy[%d] = %.4f, want around 0.88", j, acc)
		}
	}

	saved, err := learn.LoadMarginals(cfg.MarginalsPath)
	if err != nil {
		t.Fatalf("LoadMarginals: %v", err)
	}
	if diff := cmp.Diff(m, saved); diff != "" {
		t.Errorf("saved marginals mismatch (-want +got):\n%s", diff)
	}
	if fi, err := os.Stat(cfg.MarginalsPNG); err != nil || fi.Size() == 0 {
		t.Errorf("histogram image missing or empty: %v", err)
	}

	p.SetGold(Dev, goldFor(p.Candidates(Dev)))
	p.SetGold(Test, goldFor(p.Candidates(Test)))
	eval, err := p.Classify()
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if eval.Search != nil {
		t.Errorf("Search = %+v, want nil without a search", eval.Search)
	}
	if eval.Dev == nil || eval.Dev.Scores.F1 != 1.0 {
		t.Errorf("dev report = %+v, want F1 1.0", eval.Dev)
	}
	if eval.Test == nil || eval.Test.Scores.F1 != 1.0 {
		t.Errorf("test report = %+v, want F1 1.0", eval.Test)
	}
	if len(eval.Dev.TP) != 1 || len(eval.Dev.TN) != 1 {
		t.Errorf("dev buckets TP=%v TN=%v, want one of each", eval.Dev.TP, eval.Dev.TN)
	}
	if p.Model() == nil {
		t.Error("Model() = nil after Classify")
	}
}

func TestPipelineRunWithSearch(t *testing.T) {
	dir := t.TempDir()
	devGold := filepath.Join(dir, "dev.tsv")
	testGold := filepath.Join(dir, "test.tsv")
	if err := os.WriteFile(devGold, []byte("dev0::0:0-5\t1\ndev1::0:0-6\t-1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(testGold, []byte("test0::0:0-6\t1\ntest1::0:0-4\t-1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Seed = 11
	cfg.MajorityVote = true
	cfg.NSearch = 3
	cfg.NEpochs = 500
	cfg.LRRange = [2]float64{0.5, 0.5}
	cfg.L1Range = [2]float64{1e-9, 1e-9}
	cfg.L2Range = [2]float64{1e-9, 1e-9}
	p := New(cfg)
	if err := p.LoadGoldTSV(devGold, Dev); err != nil {
		t.Fatalf("LoadGoldTSV: %v", err)
	}
	if err := p.LoadGoldTSV(testGold, Test); err != nil {
		t.Fatalf("LoadGoldTSV: %v", err)
	}

	eval, err := p.Run(context.Background(), corpus.Static(fixtureDocs()),
		fixtureExtractor(t), assignByName, []label.LF{lfFruit(), lfMetal()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := make([]float64, 0, 8)
	for _, c := range p.Candidates(Train) {
		if fruitTerms[spanWord(c)] {
			want = append(want, 1.0)
		} else {
			want = append(want, 0.0)
		}
	}
	if diff := cmp.Diff(want, p.Marginals()); diff != "" {
		t.Errorf("majority-vote marginals mismatch (-want +got):\n%s", diff)
	}
	if p.GenerativeModel() != nil {
		t.Error("GenerativeModel() non-nil under majority vote")
	}

	if eval.Search == nil {
		t.Fatal("Search = nil, want a winning draw")
	}
	if lr := eval.Search.Params["lr"]; math.Abs(lr-0.5) > 1e-9 {
		t.Errorf("winning lr = %v, want 0.5", lr)
	}
	if eval.Dev.Scores.F1 != 1.0 {
		t.Errorf("dev F1 = %v, want 1.0", eval.Dev.Scores.F1)
	}
	if eval.Test.Scores.F1 != 1.0 {
		t.Errorf("test F1 = %v, want 1.0", eval.Test.Scores.F1)
	}
}

func TestPipelineTraditional(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.Traditional = 6
	cfg.NEpochs = 500
	cfg.LRRange = [2]float64{0.5, 0.5}
	cfg.L1Range = [2]float64{1e-9, 1e-9}
	cfg.L2Range = [2]float64{1e-9, 1e-9}
	p := New(cfg)

	if err := p.Parse(context.Background(), corpus.Static(fixtureDocs())); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := p.Extract(fixtureExtractor(t), assignByName); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if err := p.Featurize(); err != nil {
		t.Fatalf("Featurize: %v", err)
	}
	if err := p.Label([]label.LF{lfFruit(), lfMetal()}); err != nil {
		t.Fatalf("Label: %v", err)
	}
	p.SetGold(Train, goldFor(p.Candidates(Train)))
	p.SetGold(Dev, goldFor(p.Candidates(Dev)))
	p.SetGold(Test, goldFor(p.Candidates(Test)))

	if err := p.Supervise(); err != nil {
		t.Fatalf("Supervise: %v", err)
	}
	want := make([]float64, 0, 8)
	for _, c := range p.Candidates(Train) {
		if fruitTerms[spanWord(c)] {
			want = append(want, 1.0)
		} else {
			want = append(want, 0.0)
		}
	}
	if diff := cmp.Diff(want, p.Marginals()); diff != "" {
		t.Errorf("gold marginals mismatch (-want +got):\n%s", diff)
	}

	eval, err := p.Classify()
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if eval.Dev.Scores.F1 != 1.0 || eval.Test.Scores.F1 != 1.0 {
		t.Errorf("F1 dev=%v test=%v, want 1.0 for both",
			eval.Dev.Scores.F1, eval.Test.Scores.F1)
	}
}

func TestPipelineStagePreconditions(t *testing.T) {
	p := New(DefaultConfig())
	lfs := []label.LF{lfFruit()}

	checks := []struct {
		name string
		err  error
	}{
		{"Extract", p.Extract(fixtureExtractor(t), assignByName)},
		{"Featurize", p.Featurize()},
		{"Label", p.Label(lfs)},
		{"Supervise", p.Supervise()},
	}
	if _, err := p.Classify(); err == nil {
		t.Error("Classify() before Featurize: no error")
	} else {
		checks = append(checks, struct {
			name string
			err  error
		}{"Classify", err})
	}
	for _, c := range checks {
		if c.err == nil {
			t.Errorf("%s out of order: no error", c.name)
			continue
		}
		var ce *pkgerrors.ContractError
		if !pkgerrors.As(c.err, &ce) {
			t.Errorf("%s error = %v, want ContractError", c.name, c.err)
		}
	}
}

func TestSaveMarginalsHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.png")
	if err := SaveMarginalsHistogram(path, []float64{0.05, 0.1, 0.5, 0.88, 0.9, 0.91}); err != nil {
		t.Fatalf("SaveMarginalsHistogram: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Size() == 0 {
		t.Error("histogram file is empty")
	}

	if err := SaveMarginalsHistogram(path, nil); err == nil {
		t.Error("empty marginals: no error")
	}
	if err := SaveMarginalsHistogram("", []float64{0.5}); err == nil {
		t.Error("empty path: no error")
	}
}
