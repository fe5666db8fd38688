package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thushan/ladder/internal/app"
	"github.com/thushan/ladder/internal/config"
	"github.com/thushan/ladder/internal/core/domain"
	"github.com/thushan/ladder/internal/logger"
)

type result struct {
	stdout string
	stderr string
	code   int
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// testConfig writes a config with the default three tier chain and an
// audit journal in a temp dir.
func testConfig(t *testing.T) (path string, auditDir string) {
	t.Helper()
	dir := t.TempDir()
	auditDir = filepath.Join(dir, "audit")
	path = filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf("logging:\n  level: error\naudit:\n  enabled: true\n  dir: %s\n", auditDir)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path, auditDir
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		severity    domain.Severity
		description string
		skip        bool
		wantErr     bool
	}{
		{name: "simple", line: "1 Password reset", severity: 1, description: "Password reset"},
		{name: "extra whitespace", line: "  3   Server down  ", severity: 3, description: "Server down"},
		{name: "tab separated", line: "2\tVPN drops", severity: 2, description: "VPN drops"},
		{name: "blank", line: "   ", skip: true},
		{name: "comment", line: "# tickets for monday", skip: true},
		{name: "no description", line: "4", wantErr: true},
		{name: "not a number", line: "high Server down", wantErr: true},
		{name: "out of range", line: "11 Meteor", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, skip, err := parseLine(tt.line)
			assert.Equal(t, tt.skip, skip)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.skip {
				return
			}
			assert.Equal(t, tt.severity, req.Severity())
			assert.Equal(t, tt.description, req.Description())
		})
	}
}

func TestDispatchCommand_Handled(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "", "dispatch", "--config", cfg, "-s", "1", "-d", "Password reset")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "handled by level1 after 1 hop: level1 serviced request: Password reset\n", res.stdout)
}

func TestDispatchCommand_DescriptionFromArgs(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "", "dispatch", "--config", cfg, "--severity", "3", "Server", "room", "flooded")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "handled by level3 after 3 hops: level3 serviced request: Server room flooded")
}

func TestDispatchCommand_Exhausted(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "", "dispatch", "--config", cfg, "-s", "5", "-d", "Datacenter fire")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "exhausted after 3 hops")

	res = run(t, "", "dispatch", "--config", cfg, "-s", "5", "-d", "Datacenter fire", "--fail-on-exhausted")
	assert.Equal(t, ExitCodeExhausted, res.code)
}

func TestDispatchCommand_JSON(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "", "dispatch", "--config", cfg, "-s", "2", "-d", "VPN drops", "--json")
	require.Equal(t, 0, res.code, res.stderr)

	var view outcomeView
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.Equal(t, domain.OutcomeHandled, view.Outcome)
	assert.Equal(t, "level2", view.HandledBy)
	assert.Equal(t, 2, view.Hops)
	assert.NotEmpty(t, view.RequestID)
}

func TestDispatchCommand_InvalidRequest(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "", "dispatch", "--config", cfg, "-s", "0", "-d", "nope")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "severity")

	res = run(t, "", "dispatch", "--config", cfg, "-s", "1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "description is required")
}

func TestDispatchCommand_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chain:\n  handlers:\n    - name: a\n      kind: psychic\n"), 0644))

	res := run(t, "", "dispatch", "--config", path, "-s", "1", "-d", "x")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "chain.handlers[0].kind")
}

func TestRunCommand(t *testing.T) {
	cfg, _ := testConfig(t)
	input := "1 Password reset\n\n# comment\nbogus line\n3 Server down\n7 Meteor strike\n"

	res := run(t, input, "run", "--config", cfg, "--json", "--summary=false")
	require.Equal(t, 0, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)

	var views []outcomeView
	for _, line := range lines {
		var v outcomeView
		require.NoError(t, json.Unmarshal([]byte(line), &v))
		views = append(views, v)
	}
	assert.Equal(t, "level1", views[0].HandledBy)
	assert.Equal(t, "level3", views[1].HandledBy)
	assert.Equal(t, domain.OutcomeExhausted, views[2].Outcome)
}

func TestRunCommand_SummaryAndExitCode(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "1 a\n9 b\n", "run", "--config", cfg, "--fail-on-exhausted")
	assert.Equal(t, ExitCodeExhausted, res.code)
	assert.Contains(t, res.stderr, "Dispatched")
	assert.Contains(t, res.stderr, "level1")

	res = run(t, "1 a\n2 b\n", "run", "--config", cfg, "--fail-on-exhausted")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestRunCommand_RateLimited(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "1 a\n2 b\n3 c\n", "run", "--config", cfg, "--rate", "1000", "--summary=false")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Len(t, strings.Split(strings.TrimSpace(res.stdout), "\n"), 3)
}

func TestRunCommand_Follow(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "1 Password reset\n9 Meteor strike\n", "run", "--config", cfg, "--follow", "--summary=false")
	require.Equal(t, 0, res.code, res.stderr)

	var events []string
	for _, line := range strings.Split(strings.TrimSpace(res.stderr), "\n") {
		if strings.HasPrefix(line, "[") {
			events = append(events, line)
		}
	}
	require.Len(t, events, 2, res.stderr)
	assert.Contains(t, events[0], "handled")
	assert.Contains(t, events[0], "level1")
	assert.Contains(t, events[0], "severity=1 hops=1")
	assert.Contains(t, events[1], "exhausted")
	assert.Contains(t, events[1], "severity=9 hops=3")
}

func TestFormatEvent(t *testing.T) {
	req := domain.MustRequest(2, "vpn drops")
	at := time.Date(2026, 1, 2, 9, 30, 15, 250*int(time.Millisecond), time.UTC)

	handled := domain.DispatchEvent{
		Timestamp: at,
		Outcome:   domain.Handled("level2", req, 2, domain.NewServiceRecord("level2", req)),
		Latency:   1500 * time.Microsecond,
	}
	line := formatEvent(handled)
	assert.True(t, strings.HasPrefix(line, "[09:30:15.250] handled"), line)
	assert.Contains(t, line, "level2")
	assert.Contains(t, line, "severity=2 hops=2 latency=1ms id="+req.ID())

	exhausted := domain.DispatchEvent{Timestamp: at, Outcome: domain.Exhausted(req, 3)}
	assert.Contains(t, formatEvent(exhausted), "exhausted")
	assert.Contains(t, formatEvent(exhausted), " - ")
}

func TestChainReloader_DropsRevisionsWhenStartupFailed(t *testing.T) {
	r := newChainReloader(&globalOptions{})
	r.attach(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.onChange(config.DefaultConfig())
		r.onError(errors.New("bad yaml"))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("config callbacks blocked after failed startup")
	}
}

func TestChainReloader_SwapsChainOnceAttached(t *testing.T) {
	log := logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	application, err := app.New(config.DefaultConfig(), log)
	require.NoError(t, err)
	defer application.Close()

	r := newChainReloader(&globalOptions{})

	updated := config.DefaultConfig()
	updated.Chain.Handlers = updated.Chain.Handlers[:1]

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.onChange(updated)
	}()

	select {
	case <-done:
		t.Fatal("revision applied before the runtime was attached")
	case <-time.After(20 * time.Millisecond):
	}

	r.attach(&runtime{log: log, app: application})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("revision not applied after attach")
	}
	assert.Equal(t, []string{"level1"}, application.Chain().Names())
}

func TestChainCommand(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "", "chain", "--config", cfg, "--json")
	require.Equal(t, 0, res.code, res.stderr)

	var entries []chainEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, chainEntry{Position: 1, Name: "level1", Kind: "tier", Accepts: "Level 1 Support (severity 1)"}, entries[0])

	res = run(t, "", "chain", "--config", cfg)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Level 3 Support")
}

func TestChainCommand_YAMLRoundTrip(t *testing.T) {
	cfg, _ := testConfig(t)

	res := run(t, "", "chain", "--config", cfg, "--yaml")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "severities: [1]")

	var parsed map[string]config.ChainConfig
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &parsed))
	assert.Equal(t, config.DefaultConfig().Chain, parsed["chain"])
}

func TestChainCommand_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\nchain:\n  handlers: []\n"), 0644))

	res := run(t, "", "chain", "--config", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "chain is empty")
}

func TestAuditCommand(t *testing.T) {
	cfg, _ := testConfig(t)

	require.Equal(t, 0, run(t, "1 Password reset\n2 VPN drops\n8 Meteor\n", "run", "--config", cfg, "--summary=false").code)

	res := run(t, "", "audit", "--config", cfg, "--json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Len(t, strings.Split(strings.TrimSpace(res.stdout), "\n"), 3)

	res = run(t, "", "audit", "--config", cfg, "--outcome", "exhausted", "--json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Meteor")
	assert.NotContains(t, res.stdout, "VPN")

	res = run(t, "", "audit", "--config", cfg, "--handler", "level2")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "level2 serviced request: VPN drops")

	res = run(t, "", "audit", "--config", cfg, "--outcome", "maybe")
	assert.Equal(t, 1, res.code)
}

func TestAuditOptions_Query(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	q, err := (&auditOptions{since: "24h", severity: 3, handler: "level*", limit: 5}).query(now)
	require.NoError(t, err)
	require.NotNil(t, q.Since)
	assert.Equal(t, now.Add(-24*time.Hour), *q.Since)
	assert.Equal(t, domain.Severity(3), q.Severity)
	assert.Equal(t, 5, q.Limit)

	_, err = (&auditOptions{since: "last tuesday"}).query(now)
	assert.Error(t, err)

	_, err = (&auditOptions{severity: 42}).query(now)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	res := run(t, "", "version", "--json")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, `"name":"ladder"`)
}

func TestFormatOutcome(t *testing.T) {
	req := domain.MustRequest(4, "Printer on fire")
	assert.Equal(t, "exhausted after 0 hops: no handler accepted severity 4 request: Printer on fire",
		formatOutcome(domain.Exhausted(req, 0)))
}
