package sell

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/techmarket"
	mockapp "github.com/agentstation/techmarket/internal/cmd/application"
	"github.com/agentstation/techmarket/internal/storage/memory"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/logging"
)

func newTestApp(t *testing.T, format string) (*mockapp.Mock, *techmarket.Service) {
	t.Helper()
	svc, err := techmarket.New(
		techmarket.WithStore(memory.New(catalogs.TestCatalog(t))),
		techmarket.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	return &mockapp.Mock{
		ServiceFunc:      func() (*techmarket.Service, error) { return svc, nil },
		OutputFormatFunc: func() string { return format },
	}, svc
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSell(t *testing.T) {
	app, svc := newTestApp(t, "json")

	out, _, err := execute(t, NewCommand(app), "2", "--user", "1")
	require.NoError(t, err)

	var sale catalogs.Sale
	require.NoError(t, json.Unmarshal([]byte(out), &sale))
	assert.Equal(t, int64(2), sale.DeviceID)
	assert.Equal(t, 800.0, sale.FinalPrice)

	sales, err := svc.List(context.Background(), catalogs.KindSale)
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}

func TestSellUnknownUser(t *testing.T) {
	app, svc := newTestApp(t, "json")

	_, _, err := execute(t, NewCommand(app), "2", "--user", "42")
	require.Error(t, err)

	sales, err := svc.List(context.Background(), catalogs.KindSale)
	require.NoError(t, err)
	assert.Len(t, sales, 1, "nothing recorded")
}
