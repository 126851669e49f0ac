package installer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev-bootstrap/internal/state"
)

// fakeTool is a scriptable Tool for exercising the guard/install/record flow
// without touching the machine.
type fakeTool struct {
	name       string
	pinned     string
	present    bool
	installErr error

	installCalls   int
	configureCalls int
	configureErr   error
}

func (f *fakeTool) Name() string    { return f.name }
func (f *fakeTool) Pinned() string  { return f.pinned }
func (f *fakeTool) IsPresent() bool { return f.present }
func (f *fakeTool) Install() error {
	f.installCalls++
	if f.installErr != nil {
		return f.installErr
	}
	f.present = true
	return nil
}
func (f *fakeTool) VersionString() string { return f.name + " 1.0" }

// configurableTool adds a Configure hook on top of fakeTool.
type configurableTool struct{ fakeTool }

func (c *configurableTool) Configure() error {
	c.configureCalls++
	return c.configureErr
}

func newState() *state.State {
	return &state.State{
		Tools:    make(map[string]state.ToolState),
		Projects: make(map[string]state.ProjectState),
	}
}

func TestSyncInstallsAbsentTool(t *testing.T) {
	tool := &fakeTool{name: "widget", pinned: "1.0"}
	st := newState()

	require.NoError(t, Sync([]Step{{Tool: tool}}, st))

	assert.Equal(t, 1, tool.installCalls)
	entry, ok := st.Tools["widget"]
	require.True(t, ok)
	assert.Equal(t, "1.0", entry.Version)
	assert.True(t, entry.InstalledByBootstrap)
}

func TestSyncSkipsPresentTool(t *testing.T) {
	tool := &fakeTool{name: "widget", present: true}
	st := newState()

	require.NoError(t, Sync([]Step{{Tool: tool}}, st))

	assert.Zero(t, tool.installCalls)
	entry, ok := st.Tools["widget"]
	require.True(t, ok, "presence still recorded for the report")
	assert.Equal(t, "widget 1.0", entry.Version)
	assert.False(t, entry.InstalledByBootstrap)
}

func TestSyncStateFastPath(t *testing.T) {
	tool := &fakeTool{name: "widget", pinned: "2.1", present: true}
	st := newState()
	st.Tools["widget"] = state.ToolState{Version: "2.1", InstalledByBootstrap: true}

	require.NoError(t, Sync([]Step{{Tool: tool}}, st))

	assert.Zero(t, tool.installCalls)
	// Fast path leaves the existing entry alone.
	assert.True(t, st.Tools["widget"].InstalledByBootstrap)
}

func TestSyncStaleStateStillInstalls(t *testing.T) {
	// State claims the pinned version but the binary is gone: presence wins.
	tool := &fakeTool{name: "widget", pinned: "2.1"}
	st := newState()
	st.Tools["widget"] = state.ToolState{Version: "2.1"}

	require.NoError(t, Sync([]Step{{Tool: tool}}, st))

	assert.Equal(t, 1, tool.installCalls)
}

func TestSyncCriticalFailureAborts(t *testing.T) {
	broken := &fakeTool{name: "base", installErr: errors.New("no network")}
	next := &fakeTool{name: "later"}
	st := newState()

	err := Sync([]Step{{Tool: broken, Critical: true}, {Tool: next}}, st)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "base")
	assert.Zero(t, next.installCalls, "steps after a critical failure must not run")
	_, recorded := st.Tools["base"]
	assert.False(t, recorded)
}

func TestSyncOptionalFailureContinues(t *testing.T) {
	broken := &fakeTool{name: "extras", installErr: errors.New("mirror down")}
	next := &fakeTool{name: "later"}
	st := newState()

	require.NoError(t, Sync([]Step{{Tool: broken}, {Tool: next}}, st))

	assert.Equal(t, 1, next.installCalls)
}

func TestSyncRunsConfigureAfterSkip(t *testing.T) {
	tool := &configurableTool{fakeTool: fakeTool{name: "widget", present: true}}
	st := newState()

	require.NoError(t, Sync([]Step{{Tool: tool}}, st))

	assert.Equal(t, 1, tool.configureCalls, "idempotent configuration runs even when the install is skipped")
}

func TestSyncRunsConfigureAfterInstall(t *testing.T) {
	tool := &configurableTool{fakeTool: fakeTool{name: "widget"}}
	st := newState()

	require.NoError(t, Sync([]Step{{Tool: tool}}, st))

	assert.Equal(t, 1, tool.installCalls)
	assert.Equal(t, 1, tool.configureCalls)
}

func TestSyncConfigureFailureFollowsStepPolicy(t *testing.T) {
	tool := &configurableTool{fakeTool: fakeTool{name: "widget", present: true, configureErr: errors.New("rc not writable")}}
	st := newState()

	// Optional step: swallowed.
	require.NoError(t, Sync([]Step{{Tool: tool}}, st))

	// Critical step: surfaces.
	tool2 := &configurableTool{fakeTool: fakeTool{name: "gadget", present: true, configureErr: errors.New("rc not writable")}}
	assert.Error(t, Sync([]Step{{Tool: tool2, Critical: true}}, st))
}
