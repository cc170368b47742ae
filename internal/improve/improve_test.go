package improve

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-quality/internal/enhancer"
	"github.com/jonathan/content-quality/internal/quality"
	"github.com/jonathan/content-quality/internal/types"
)

// fakeEnhancer is an in-memory enhancer.Enhancer
type fakeEnhancer struct {
	rewrite string
	err     error
	calls   int
	lastReq enhancer.Request
}

func (f *fakeEnhancer) CheckQuality(context.Context, enhancer.Request) (*enhancer.QualityResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeEnhancer) Rewrite(_ context.Context, req enhancer.Request) (string, error) {
	f.calls++
	f.lastReq = req
	return f.rewrite, f.err
}

var quietLogger = log.New(io.Discard, "", 0)

const messy = "<p>Sea View Flat</p><p>Bright rooms with a view of the bay. [image: terrace]"

// unreachable asks for a score no content reaches so every path runs
func unreachable(opts Options) Options {
	opts.MinScore = 101
	return opts
}

func TestImprove_NoopWhenGoodEnough(t *testing.T) {
	content := "<p>Hello there friends.</p>"
	score := quality.Assess(content, "Hello", types.Meta{}, nil).Overall
	fake := &fakeEnhancer{rewrite: "<p>changed</p>"}
	imp := NewImprover(fake, time.Second, quietLogger, nil)

	opts := DefaultOptions()
	opts.MinScore = score
	opts.UseRemote = true

	got := imp.Improve(context.Background(), content, "Hello", opts)
	assert.Equal(t, types.ImprovedContent{
		Content:       content,
		OriginalScore: score,
		ImprovedScore: score,
		Improvements:  []string{},
	}, got)
	assert.Equal(t, 0, fake.calls)
}

func TestImprove_LocalPass(t *testing.T) {
	imp := NewImprover(nil, 0, quietLogger, nil)

	got := imp.Improve(context.Background(), messy, "Sea View Flat", unreachable(DefaultOptions()))

	assert.False(t, got.UsedRemoteEnhancer)
	assert.Equal(t, "<h2>Sea View Flat</h2><p>Bright rooms with a view of the bay.</p>", got.Content)
	assert.Contains(t, got.Improvements, "Removed 1 placeholder token(s)")
	assert.Contains(t, got.Improvements, "Repaired malformed HTML tags")
	assert.Contains(t, got.Improvements, "Promoted the opening line to an H2 heading")
	assert.Equal(t, quality.Assess(got.Content, "Sea View Flat", types.Meta{}, nil).Overall, got.ImprovedScore)
}

func TestImprove_LocalFixesFollowOptions(t *testing.T) {
	imp := NewImprover(nil, 0, quietLogger, nil)
	opts := unreachable(Options{})

	got := imp.Improve(context.Background(), messy, "Sea View Flat", opts)
	assert.Contains(t, got.Content, "[image: terrace]")
	assert.NotContains(t, got.Content, "<h2>")
	assert.NotContains(t, got.Improvements, "Promoted the opening line to an H2 heading")
}

func TestImprove_RemoteRewrite(t *testing.T) {
	fake := &fakeEnhancer{rewrite: "<h2>Sea View Flat</h2><p>Fresh copy about the bay.</p><script>alert(1)</script>"}
	imp := NewImprover(fake, time.Second, quietLogger, nil)

	opts := unreachable(DefaultOptions())
	opts.UseRemote = true
	opts.Keywords = []string{"kas"}

	got := imp.Improve(context.Background(), messy, "Sea View Flat", opts)

	require.True(t, got.UsedRemoteEnhancer)
	assert.Equal(t, 1, fake.calls)
	assert.NotContains(t, got.Content, "<script")
	assert.Contains(t, got.Content, "Fresh copy about the bay.")
	assert.Equal(t, []string{"kas"}, fake.lastReq.Context.Keywords)
	assert.Equal(t, "<h2>Sea View Flat</h2><p>Bright rooms with a view of the bay.</p>", fake.lastReq.Content)
	assert.Equal(t, quality.Assess(got.Content, "Sea View Flat", types.Meta{}, nil).Overall, got.ImprovedScore)
}

func TestImprove_RemoteFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeEnhancer
	}{
		{"error", &fakeEnhancer{err: &enhancer.RemoteError{Operation: "rewrite", Message: "unavailable"}}},
		{"empty rewrite", &fakeEnhancer{rewrite: "<script>only</script>"}},
		{"only unsafe markup in a paragraph", &fakeEnhancer{rewrite: "<p><script>alert(1)</script></p>"}},
		{"blank rewrite", &fakeEnhancer{rewrite: "<div> <p>&nbsp;</p> </div>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := NewImprover(tt.fake, time.Second, quietLogger, nil)
			opts := unreachable(DefaultOptions())
			opts.UseRemote = true

			got := imp.Improve(context.Background(), messy, "Sea View Flat", opts)
			local, _ := LocalPass(messy, opts)

			assert.False(t, got.UsedRemoteEnhancer)
			assert.Equal(t, local, got.Content)
			assert.Equal(t, 1, tt.fake.calls)
		})
	}
}

func TestFinish(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"script only", "<script>alert(1)</script>", ""},
		{"paragraph emptied by sanitizing", "<p><script>alert(1)</script></p>", ""},
		{"safe content kept", "<h2>Bay</h2><p>Calm water.</p><script>x()</script>", "<h2>Bay</h2><p>Calm water.</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, finish(tt.input))
		})
	}
}

func TestLocalPass_DropsBlocksEmptiedBySanitizing(t *testing.T) {
	got, notes := LocalPass("<p>Calm water by the bay.</p><p><iframe src=\"https://x.test\"></iframe></p>", DefaultOptions())
	assert.NotContains(t, got, "<p></p>")
	assert.Contains(t, got, "<p>Calm water by the bay.</p>")
	assert.Contains(t, notes, "Removed unsafe or disallowed markup")
}

func TestImprove_RemoteNotRequested(t *testing.T) {
	fake := &fakeEnhancer{rewrite: "<p>remote</p>"}
	imp := NewImprover(fake, time.Second, quietLogger, nil)

	got := imp.Improve(context.Background(), messy, "Sea View Flat", unreachable(DefaultOptions()))
	assert.False(t, got.UsedRemoteEnhancer)
	assert.Equal(t, 0, fake.calls)
}

func TestImprove_CancelledContext(t *testing.T) {
	fake := &fakeEnhancer{rewrite: "<p>remote</p>"}
	imp := NewImprover(fake, time.Second, quietLogger, nil)
	opts := unreachable(DefaultOptions())
	opts.UseRemote = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := imp.Improve(ctx, messy, "Sea View Flat", opts)
	assert.False(t, got.UsedRemoteEnhancer)
	assert.Equal(t, 0, fake.calls)
}

func TestOptions_MinScoreDefault(t *testing.T) {
	assert.Equal(t, DefaultMinScore, Options{}.minScore())
	assert.Equal(t, 70, Options{MinScore: 70}.minScore())
	assert.Equal(t, 1, Options{MinScore: 1}.minScore())
	assert.Equal(t, DefaultMinScore, Options{MinScore: -3}.minScore())
}
