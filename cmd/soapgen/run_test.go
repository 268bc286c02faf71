package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/soapgen/internal/submission"
)

type stubGenerator struct {
	calls int
	last  submission.Request
	out   string
	err   error
}

func (g *stubGenerator) Generate(_ context.Context, req submission.Request) (string, error) {
	g.calls++
	g.last = req
	return g.out, g.err
}

type stubPrompter struct {
	path    string
	text    string
	confirm bool
	asked   []string
}

func (p *stubPrompter) FilePath(m string) (string, error) {
	p.asked = append(p.asked, m)
	return p.path, nil
}

func (p *stubPrompter) Requirements(m string) (string, error) {
	p.asked = append(p.asked, m)
	return p.text, nil
}

func (p *stubPrompter) Confirm(m string, _ bool) (bool, error) {
	p.asked = append(p.asked, m)
	return p.confirm, nil
}

func writeWSDL(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "bank.wsdl")
	require.NoError(t, os.WriteFile(p, []byte("<definitions/>"), 0o644))
	return p
}

func newRunner(gen submission.Generator, p Prompter) (*runner, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &runner{gen: gen, prompt: p, stdout: &out, stderr: &errOut}, &out, &errOut
}

func TestRun_FlagsSuccess(t *testing.T) {
	gen := &stubGenerator{out: "<xml>ok</xml>"}
	r, out, _ := newRunner(gen, &stubPrompter{})
	dir := t.TempDir()

	err := r.Run(context.Background(), runOptions{WSDLPath: writeWSDL(t), Text: "overdraft", OutDir: dir})

	require.NoError(t, err)
	assert.Equal(t, "bank.wsdl", gen.last.File.Name)
	assert.Equal(t, "overdraft", gen.last.Text)
	assert.Equal(t, "<xml>ok</xml>\n", out.String())

	saved, err := os.ReadFile(filepath.Join(dir, "soapui-project.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<xml>ok</xml>", string(saved))
}

func TestRun_MissingFile(t *testing.T) {
	gen := &stubGenerator{out: "<xml/>"}
	r, out, errOut := newRunner(gen, &stubPrompter{})

	err := r.Run(context.Background(), runOptions{OutDir: t.TempDir()})

	require.ErrorIs(t, err, submission.ErrMissingFile)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, "Please upload a WSDL file.\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestRun_FailureDoesNotSaveByDefault(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	r, out, _ := newRunner(gen, &stubPrompter{})
	dir := t.TempDir()

	err := r.Run(context.Background(), runOptions{WSDLPath: writeWSDL(t), OutDir: dir})

	require.ErrorIs(t, err, submission.ErrGenerationFailed)
	assert.Equal(t, submission.FailureOutput+"\n", out.String())
	_, statErr := os.Stat(filepath.Join(dir, "soapui-project.xml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_InteractivePromptsForMissing(t *testing.T) {
	gen := &stubGenerator{out: "<p/>"}
	p := &stubPrompter{path: writeWSDL(t), text: "happy path", confirm: true}
	r, _, _ := newRunner(gen, p)
	dir := t.TempDir()

	require.NoError(t, r.Run(context.Background(), runOptions{OutDir: dir, Interactive: true}))

	assert.Len(t, p.asked, 3)
	assert.Equal(t, "happy path", gen.last.Text)
	_, err := os.Stat(filepath.Join(dir, "soapui-project.xml"))
	assert.NoError(t, err)
}

func TestRun_InteractiveCanSaveFailureText(t *testing.T) {
	gen := &stubGenerator{err: errors.New("500")}
	p := &stubPrompter{confirm: true}
	r, _, _ := newRunner(gen, p)
	dir := t.TempDir()

	err := r.Run(context.Background(), runOptions{WSDLPath: writeWSDL(t), Text: "x", OutDir: dir, Interactive: true})
	require.ErrorIs(t, err, submission.ErrGenerationFailed)

	saved, readErr := os.ReadFile(filepath.Join(dir, "soapui-project.xml"))
	require.NoError(t, readErr)
	assert.Equal(t, submission.FailureOutput, string(saved))
	assert.Len(t, p.asked, 1)
}

func TestRun_UnreadableFile(t *testing.T) {
	r, _, _ := newRunner(&stubGenerator{}, &stubPrompter{})

	err := r.Run(context.Background(), runOptions{WSDLPath: filepath.Join(t.TempDir(), "missing.wsdl")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read wsdl")
}
