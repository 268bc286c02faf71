package submission

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	release  chan struct{}
	started  chan Request
	out      string
	err      error
}

func (g *fakeGenerator) Generate(ctx context.Context, req Request) (string, error) {
	g.calls.Add(1)
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		m := g.maxSeen.Load()
		if n <= m || g.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	if g.started != nil {
		g.started <- req
	}
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.out, g.err
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func wsdl() File { return File{Name: "service.wsdl", Data: []byte("<definitions/>")} }

func TestNewController_Defaults(t *testing.T) {
	c := NewController(&fakeGenerator{})
	s := c.Snapshot()
	assert.Equal(t, DefaultOutput, s.Output)
	assert.False(t, s.Pending)
	assert.Nil(t, s.File)
	assert.Empty(t, s.Text)
}

func TestSubmit_MissingFile(t *testing.T) {
	gen := &fakeGenerator{out: "<xml/>"}
	notes := &recordingNotifier{}
	c := NewController(gen, WithNotifier(notes))
	c.SetText("only text")

	err := c.Submit(context.Background())

	require.ErrorIs(t, err, ErrMissingFile)
	assert.Equal(t, int32(0), gen.calls.Load())
	assert.Equal(t, DefaultOutput, c.Snapshot().Output)
	assert.False(t, c.Pending())
	assert.Equal(t, []string{MissingFileNotice}, notes.messages)
}

func TestSubmit_Success(t *testing.T) {
	gen := &fakeGenerator{out: "<xml>ok</xml>", started: make(chan Request, 1)}
	c := NewController(gen)
	c.SetFile(wsdl())
	c.SetText("cover negative cases")

	require.NoError(t, c.Submit(context.Background()))

	req := <-gen.started
	assert.Equal(t, "service.wsdl", req.File.Name)
	assert.Equal(t, []byte("<definitions/>"), req.File.Data)
	assert.Equal(t, "cover negative cases", req.Text)

	s := c.Snapshot()
	assert.Equal(t, "<xml>ok</xml>", s.Output)
	assert.False(t, s.Pending)
}

func TestSubmit_FailureUsesPlaceholder(t *testing.T) {
	causes := []error{
		errors.New("connection refused"),
		errors.New("status 500"),
		context.DeadlineExceeded,
	}
	for _, cause := range causes {
		t.Run(cause.Error(), func(t *testing.T) {
			c := NewController(&fakeGenerator{err: cause})
			c.SetFile(wsdl())

			err := c.Submit(context.Background())

			require.ErrorIs(t, err, ErrGenerationFailed)
			assert.Equal(t, FailureOutput, c.Snapshot().Output)
			assert.False(t, c.Pending())
		})
	}
}

func TestSubmit_PendingVisibleWhileInFlight(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "<xml>ok</xml>"},
		{"failure", errors.New("boom"), FailureOutput},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{out: "<xml>ok</xml>", err: tc.err, release: make(chan struct{}), started: make(chan Request, 1)}
			c := NewController(gen)
			c.SetFile(wsdl())

			done := make(chan error, 1)
			go func() { done <- c.Submit(context.Background()) }()

			<-gen.started
			assert.True(t, c.Pending())
			assert.True(t, c.Snapshot().Pending)

			close(gen.release)
			<-done

			assert.False(t, c.Pending())
			assert.Equal(t, tc.want, c.Snapshot().Output)
		})
	}
}

func TestSubmit_RejectsReentry(t *testing.T) {
	gen := &fakeGenerator{out: "<xml/>", release: make(chan struct{}), started: make(chan Request, 1)}
	c := NewController(gen)
	c.SetFile(wsdl())

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-gen.started

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmissionPending)

	close(gen.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), gen.calls.Load())

	// idle again, so a new attempt goes through
	gen.release = nil
	gen.started = nil
	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestSubmit_ConcurrentCallersNeverOverlap(t *testing.T) {
	gen := &fakeGenerator{out: "<xml/>"}
	c := NewController(gen)
	c.SetFile(wsdl())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Submit(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), gen.maxSeen.Load())
	assert.False(t, c.Pending())
}

func TestSubmit_ContextTimeoutSettles(t *testing.T) {
	gen := &fakeGenerator{release: make(chan struct{})}
	c := NewController(gen)
	c.SetFile(wsdl())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Submit(ctx)
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, FailureOutput, c.Snapshot().Output)
	assert.False(t, c.Pending())
}

func TestSubmit_GeneratorPanicSettles(t *testing.T) {
	c := NewController(panicGenerator{})
	c.SetFile(wsdl())

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.False(t, c.Pending())
	assert.Equal(t, FailureOutput, c.Snapshot().Output)
}

type panicGenerator struct{}

func (panicGenerator) Generate(context.Context, Request) (string, error) { panic("bad") }

func TestSettersHaveNoSideEffects(t *testing.T) {
	gen := &fakeGenerator{out: "<xml/>"}
	c := NewController(gen)

	c.SetText("anything")
	c.SetFile(File{Name: "notes.txt", Data: []byte("not a wsdl")})
	c.SetText("")
	c.ClearFile()
	c.SetFile(wsdl())

	s := c.Snapshot()
	assert.Equal(t, int32(0), gen.calls.Load())
	assert.Equal(t, DefaultOutput, s.Output)
	assert.False(t, s.Pending)
	assert.Equal(t, "", s.Text)
	assert.Equal(t, "service.wsdl", s.FileName())
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := NewController(&fakeGenerator{})
	c.SetFile(wsdl())

	s := c.Snapshot()
	s.File.Name = "changed"

	assert.Equal(t, "service.wsdl", c.Snapshot().FileName())
}

func TestDownload_DefaultPlaceholder(t *testing.T) {
	c := NewController(&fakeGenerator{})

	var got []Artifact
	err := c.Download(context.Background(), SaverFunc(func(_ context.Context, a Artifact) error {
		got = append(got, a)
		return nil
	}))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "soapui-project.xml", got[0].Name)
	assert.Equal(t, "application/xml", got[0].MediaType)
	assert.Equal(t, DefaultOutput, string(got[0].Data))
}

func TestDownload_AfterFailureSavesFailureText(t *testing.T) {
	c := NewController(&fakeGenerator{err: errors.New("down")})
	c.SetFile(wsdl())
	_ = c.Submit(context.Background())

	var data string
	require.NoError(t, c.Download(context.Background(), SaverFunc(func(_ context.Context, a Artifact) error {
		data = string(a.Data)
		return nil
	})))
	assert.Equal(t, FailureOutput, data)
	assert.Equal(t, FailureOutput, c.Snapshot().Output)
}

func TestDownload_SaverError(t *testing.T) {
	c := NewController(&fakeGenerator{})
	boom := errors.New("disk full")

	err := c.Download(context.Background(), SaverFunc(func(context.Context, Artifact) error { return boom }))

	require.ErrorIs(t, err, boom)
	assert.Equal(t, DefaultOutput, c.Snapshot().Output)
}

func TestLastUsedAdvances(t *testing.T) {
	c := NewController(&fakeGenerator{})
	before := c.LastUsed()
	time.Sleep(2 * time.Millisecond)
	c.SetText("x")
	assert.True(t, c.LastUsed().After(before))
}
