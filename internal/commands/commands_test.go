package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/testutil"
)

type cli struct {
	backend *testutil.FakeBackend
	store   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{
		backend: testutil.NewFakeBackend(t),
		store:   filepath.Join(t.TempDir(), "lumen.db"),
	}
}

// run executes one CLI invocation and returns stdout and stderr.
func (c *cli) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root, rt := newRoot()
	defer rt.close()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--api-url", c.backend.URL(), "--store", c.store, "--color", "never"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (c *cli) login(t *testing.T) {
	t.Helper()
	_, _, err := c.run(t, testutil.TestPassword+"\n", "login", "--email", testutil.TestEmail)
	require.NoError(t, err)
}

func TestHelp_ListsCommands(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run(t, "", "--help")
	require.NoError(t, err)
	for _, name := range []string{"login", "register", "logout", "whoami", "profile", "transactions", "review", "watch", "chat", "upload", "add", "gmail", "health", "serve", "migrate"} {
		assert.Contains(t, out, name)
	}
}

func TestLogin_PersistsAcrossInvocations(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run(t, testutil.TestPassword+"\n", "login", "--email", testutil.TestEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Signed in as Asha Rao (consumer)")

	out, _, err = c.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha Rao <asha@example.com>")

	_, _, err = c.run(t, "", "logout")
	require.NoError(t, err)

	out, _, err = c.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestLogin_WrongPassword(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run(t, "", "login", "--email", testutil.TestEmail, "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", err.Error())

	out, _, err := c.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestGuardedCommand_RequiresLogin(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run(t, "", "transactions", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lumen login")
	assert.Zero(t, c.backend.Calls("/api/v1/transactions/"))
}

func TestTransactions_ListNewestFirst(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	out, _, err := c.run(t, "", "transactions", "list")
	require.NoError(t, err)
	first := strings.Index(out, "Merchant 6")
	second := strings.Index(out, "Merchant 5")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Contains(t, out, "6 of 6")
}

func TestTransactions_StatsJSON(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	out, _, err := c.run(t, "", "--json", "transactions", "stats", "--days", "7")
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Contains(t, stats, "total_transactions")
}

func TestTransactions_ShowInvalidID(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	_, _, err := c.run(t, "", "transactions", "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid transaction id")
}

func TestReview_ConfirmPrintsToast(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	out, _, err := c.run(t, "", "review", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 awaiting review")

	out, _, err = c.run(t, "", "review", "confirm", "2", "--notes", "mine")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Transaction confirmed as legitimate")

	out, _, err = c.run(t, "", "review", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 awaiting review")
}

func TestUpload(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	path := filepath.Join(t.TempDir(), "receipt.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o600))

	out, _, err := c.run(t, "", "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] File uploaded successfully! Transaction created.")
	assert.Equal(t, []string{"receipt.jpg"}, c.backend.Uploads())
}

func TestUpload_RejectedFile(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	path := filepath.Join(t.TempDir(), "setup.exe")
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0o600))

	_, _, err := c.run(t, "", "upload", path)
	require.Error(t, err)
	assert.Equal(t, "Unsupported file type", err.Error())
}

func TestAdd_Consumer(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	out, _, err := c.run(t, "", "add", "consumer", "--amount", "120", "--paid-to", "Cafe", "--purpose", "Lunch", "--date", "2025-11-10")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Transaction saved")
	assert.Len(t, c.backend.Transactions(), 7)
}

func TestAdd_BusinessOnConsumerAccount(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	_, _, err := c.run(t, "", "add", "business", "--amount", "120", "--party", "Acme", "--purpose", "Stock")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "business accounts")
}

func TestAdd_InvalidDate(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	_, _, err := c.run(t, "", "add", "consumer", "--amount", "1", "--paid-to", "x", "--purpose", "y", "--date", "10/11/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestChat_Send(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	out, _, err := c.run(t, "", "chat", "send", "how", "much", "on", "groceries?")
	require.NoError(t, err)
	assert.Contains(t, out, "You spent")
	assert.Contains(t, out, "session 1")

	out, _, err = c.run(t, "", "chat", "history", "--session", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "how much on groceries?")
}

func TestGmail_Sync(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	out, _, err := c.run(t, "", "gmail", "sync", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Synced 1 transaction")
	assert.Contains(t, out, "1 transactions saved")
}

func TestProfile_UpdateOnlySendsChangedFlags(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	out, _, err := c.run(t, "", "profile", "update", "--location", "Pune")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Profile updated")

	out, _, err = c.run(t, "", "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Pune")
	assert.Contains(t, out, "Asha Rao")

	_, _, err = c.run(t, "", "profile", "update")
	require.Error(t, err)
	assert.Equal(t, "Nothing to update", err.Error())
}

func TestWatch_PrintsDashboard(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	out, _, err := c.run(t, "", "watch", "--for", "500ms", "--interval", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "Dashboard for Asha Rao")
	assert.Contains(t, out, "Merchant 6")
	assert.NotContains(t, out, "Merchant 1 ")
}

func TestHealth(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run(t, "", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "healthy")
	assert.Contains(t, out, "version 1.0.0")
}

func TestMigrateAndVersion(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Local store is up to date (sqlite)")

	out, _, err = c.run(t, "", "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: 1, Dirty: false")

	_, _, err = c.run(t, "", "migrate", "sideways")
	require.Error(t, err)

	out, _, err = c.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lumen dev")
}
