package borg

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/borg-helper/internal/config"
	bherrors "github.com/thoreinstein/borg-helper/internal/errors"
)

// fakeCall records one Runner invocation.
type fakeCall struct {
	cmdline string
	env     []string
	capture bool
}

// fakeResult scripts the outcome of one Runner invocation.
type fakeResult struct {
	exitCode int
	stdout   string
	err      error
}

// fakeRunner replays scripted results in call order. Calls beyond the script
// succeed with exit code 0 and no output.
type fakeRunner struct {
	calls   []fakeCall
	results []fakeResult
}

func (f *fakeRunner) Run(cmdline string, env []string, capture bool) (int, string, error) {
	f.calls = append(f.calls, fakeCall{cmdline: cmdline, env: env, capture: capture})
	if len(f.results) < len(f.calls) {
		return 0, "", nil
	}
	r := f.results[len(f.calls)-1]
	return r.exitCode, r.stdout, r.err
}

// scriptedConfirm replays answers in order; once exhausted it keeps confirming.
func scriptedConfirm(answers ...bool) ConfirmFunc {
	i := 0
	return func(string) (bool, error) {
		if i >= len(answers) {
			return true, nil
		}
		a := answers[i]
		i++
		return a, nil
	}
}

func strPtr(s string) *string {
	return &s
}

// testEngine builds an Engine on a fake runner and in-memory streams.
func testEngine(state *config.State, runner *fakeRunner) (*Engine, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	e := &Engine{
		state:   state,
		runner:  runner,
		confirm: scriptedConfirm(),
		stdout:  &stdout,
		stderr:  &stderr,
	}
	return e, &stdout, &stderr
}

// testState returns a loaded-looking state with one fully specified repository.
func testState() *config.State {
	state := config.NewState()
	state.Repositories["offsite"] = &config.Repository{
		Location:   strPtr("ssh://backup@host/./repo"),
		Passphrase: strPtr("secret"),
		SSHKey:     strPtr("/home/user/.ssh/backup"),
	}
	return state
}

func TestDispatchUnknownRepository(t *testing.T) {
	runner := &fakeRunner{}
	e, _, _ := testEngine(testState(), runner)

	_, err := e.Dispatch("nope", []string{"list"}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bherrors.ErrUnknownRepository))
	assert.Contains(t, err.Error(), "nope")

	// No subprocess may ever be started for an unconfigured name.
	assert.Empty(t, runner.calls)
}

func TestDispatchEnvironment(t *testing.T) {
	runner := &fakeRunner{}
	e, _, _ := testEngine(testState(), runner)

	res, err := e.Dispatch("offsite", []string{"info"}, false)
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	require.Len(t, runner.calls, 1)
	env := runner.calls[0].env
	assert.Contains(t, env, "BORG_REPO=ssh://backup@host/./repo")
	assert.Contains(t, env, "BORG_PASSPHRASE=secret")
	assert.Contains(t, env, "BORG_RSH=ssh -i '/home/user/.ssh/backup'")
}

func TestDispatchOptionalFieldsOmitted(t *testing.T) {
	state := config.NewState()
	state.Repositories["plain"] = &config.Repository{
		Location: strPtr("/mnt/backup"),
	}

	runner := &fakeRunner{}
	e, _, _ := testEngine(state, runner)

	_, err := e.Dispatch("plain", []string{"info"}, false)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	for _, entry := range runner.calls[0].env {
		assert.NotContains(t, entry, "BORG_PASSPHRASE=")
		assert.NotContains(t, entry, "BORG_RSH=")
	}
	assert.Contains(t, runner.calls[0].env, "BORG_REPO=/mnt/backup")
}

func TestDispatchAliasResolutionOrder(t *testing.T) {
	state := testState()
	state.Repositories["offsite"].Aliases = map[string]string{
		"backup": "create ::daily",
	}
	// The repository alias feeds into the global table, which is applied
	// once to the substituted result.
	state.Aliases = map[string]string{
		"create": "create --stats",
	}

	runner := &fakeRunner{}
	e, _, _ := testEngine(state, runner)

	_, err := e.Dispatch("offsite", []string{"backup", "/home"}, false)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "borg create --stats ::daily /home", runner.calls[0].cmdline)
}

func TestDispatchEchoesCommandLine(t *testing.T) {
	runner := &fakeRunner{}
	e, _, stderr := testEngine(testState(), runner)

	_, err := e.Dispatch("offsite", []string{"list", "--short"}, false)
	require.NoError(t, err)

	assert.Contains(t, stderr.String(), "> ")
	assert.Contains(t, stderr.String(), "borg list --short")
}

func TestDispatchConfirmDeclined(t *testing.T) {
	state := testState()
	state.AskBeforeExecute = true

	runner := &fakeRunner{}
	e, _, _ := testEngine(state, runner)
	e.confirm = scriptedConfirm(false)

	res, err := e.Dispatch("offsite", []string{"delete", "::old"}, false)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, runner.calls)
}

func TestDispatchConfirmAccepted(t *testing.T) {
	state := testState()
	state.AskBeforeExecute = true

	runner := &fakeRunner{}
	e, _, _ := testEngine(state, runner)
	e.confirm = scriptedConfirm(true)

	res, err := e.Dispatch("offsite", []string{"prune"}, false)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Len(t, runner.calls, 1)
}

func TestDispatchCapturesStdout(t *testing.T) {
	runner := &fakeRunner{
		results: []fakeResult{{stdout: "archive-1\narchive-2\n"}},
	}
	e, _, _ := testEngine(testState(), runner)

	res, err := e.Dispatch("offsite", []string{"list", "--short"}, true)
	require.NoError(t, err)
	assert.Equal(t, "archive-1\narchive-2\n", res.Stdout)
	assert.True(t, runner.calls[0].capture)
}

func TestExecutePassThrough(t *testing.T) {
	runner := &fakeRunner{
		results: []fakeResult{{exitCode: 2}},
	}
	e, _, _ := testEngine(testState(), runner)

	code, err := e.Execute("offsite", []string{"check"})
	require.NoError(t, err)
	assert.Equal(t, 2, code)
}

func TestExecuteDeclinedPassThroughExitsOne(t *testing.T) {
	state := testState()
	state.AskBeforeExecute = true

	runner := &fakeRunner{}
	e, _, _ := testEngine(state, runner)
	e.confirm = scriptedConfirm(false)

	code, err := e.Execute("offsite", []string{"check"})
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Empty(t, runner.calls)
}

func TestExecuteUnknownRepository(t *testing.T) {
	e, _, _ := testEngine(testState(), &fakeRunner{})

	code, err := e.Execute("missing", []string{"list"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bherrors.ErrUnknownRepository))
	assert.Equal(t, 1, code)
}
