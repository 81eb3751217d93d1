package techmarket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/techmarket/internal/remote"
	"github.com/agentstation/techmarket/internal/storage/memory"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/forms"
	"github.com/agentstation/techmarket/pkg/logging"
)

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	logger := logging.NewNopLogger()
	store := memory.New(catalogs.TestCatalog(t), memory.WithLogger(logger))
	svc, err := New(append([]Option{WithStore(store), WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

// fakeRemote serves a remote catalog with one new device and accepts sales.
func fakeRemote(t *testing.T, salesSeen *atomic.Int32) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /authenticate", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id_token":"jwt"}`))
	})
	mux.HandleFunc("GET /catedra/dispositivos", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 9, "codigo": "TB-09", "nombre": "Tablet", "precioBase": 500, "moneda": "USD",
			"adicionales": [{"id": 10, "nombre": "Keyboard", "precio": 90}]}]`))
	})
	mux.HandleFunc("POST /catedra/vender", func(w http.ResponseWriter, r *http.Request) {
		salesSeen.Add(1)
		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 1540.0, in["precioFinal"])
		_, _ = w.Write([]byte(`{"idVenta": 500, "idDispositivo": 1}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func remoteConfig(t *testing.T, url string) remote.Config {
	return remote.Config{
		URL:       url,
		Username:  "seller",
		Password:  "secret",
		TokenFile: filepath.Join(t.TempDir(), "apitoken.json"),
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults to memory", func(t *testing.T) {
		svc, err := New(WithLogger(logging.NewNopLogger()))
		require.NoError(t, err)
		defer svc.Close()

		devices, err := svc.List(context.Background(), catalogs.KindDevice)
		require.NoError(t, err)
		assert.Empty(t, devices)
		assert.False(t, svc.HasRemote())
	})

	t.Run("data path", func(t *testing.T) {
		svc, err := New(WithDataPath(t.TempDir()), WithLogger(logging.NewNopLogger()))
		require.NoError(t, err)
		defer svc.Close()

		user := &catalogs.User{Login: "admin"}
		require.NoError(t, svc.Save(context.Background(), user))
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(WithStore(nil))
		assert.True(t, errors.IsValidationError(err))

		_, err = New(WithRemote(remote.Config{}))
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestServiceForm(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	form, err := svc.Form(ctx, catalogs.KindCustomization, 2)
	require.NoError(t, err)
	assert.Equal(t, catalogs.KindCustomization, form.Kind())
	assert.Equal(t, int64(2), form.ID())

	fields := form.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, []int64{1}, fields[0].Selected)
	assert.Len(t, fields[0].Options, 2)
	assert.Equal(t, []int64{3, 4}, fields[1].Selected)

	form, err = svc.Form(ctx, catalogs.KindOption, 0)
	require.NoError(t, err)
	assert.Zero(t, form.ID())
	assert.Empty(t, form.Fields()[0].Selected)
	assert.Len(t, form.Fields()[0].Options, 3)

	_, err = svc.Form(ctx, catalogs.KindDevice, 99)
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.Form(ctx, catalogs.Kind("widget"), 0)
	assert.True(t, errors.IsValidationError(err))
}

func TestServiceQuote(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	q, err := svc.Quote(ctx, 1, []int64{1}, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1540.0, q.Total)

	_, err = svc.Quote(ctx, 1, []int64{5}, nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = svc.Quote(ctx, 1, []int64{42}, nil)
	assert.True(t, errors.IsNotFound(err))
}

func TestServiceSellLocal(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	var saved []catalogs.Entity
	svc.OnSaved(func(e catalogs.Entity) { saved = append(saved, e) })

	sale, err := svc.Sell(ctx, 2, 1, []int64{1}, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), sale.ID)
	assert.Equal(t, 1540.0, sale.FinalPrice)
	require.NotNil(t, sale.User)
	assert.Equal(t, "user", sale.User.Login)
	require.Len(t, saved, 1)

	_, err = svc.Sell(ctx, 9, 1, nil, nil)
	assert.True(t, errors.IsNotFound(err))
}

func TestServiceSellRemote(t *testing.T) {
	var seen atomic.Int32
	url := fakeRemote(t, &seen)
	svc := newService(t, WithRemote(remoteConfig(t, url)))

	sale, err := svc.Sell(context.Background(), 0, 1, []int64{1}, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(500), sale.ID)
	assert.Nil(t, sale.User)
	assert.Equal(t, int32(1), seen.Load())
}

func TestServiceSellRemoteIDTaken(t *testing.T) {
	var seen atomic.Int32
	url := fakeRemote(t, &seen)
	svc := newService(t, WithRemote(remoteConfig(t, url)))
	ctx := context.Background()

	_, err := svc.Sell(ctx, 0, 1, []int64{1}, []int64{1, 2})
	require.NoError(t, err)

	// the fake remote answers every sale with id 500
	_, err = svc.Sell(ctx, 2, 1, []int64{1}, []int64{1, 2})
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
	assert.Equal(t, int32(2), seen.Load())

	e, err := svc.Get(ctx, catalogs.KindSale, 500)
	require.NoError(t, err)
	assert.Nil(t, e.(*catalogs.Sale).User)
}

func TestServiceSync(t *testing.T) {
	ctx := context.Background()

	t.Run("without remote", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Sync(ctx)
		var cfgErr *errors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
		assert.Error(t, svc.AutoSyncOn())
	})

	t.Run("with remote", func(t *testing.T) {
		var seen atomic.Int32
		svc := newService(t, WithRemote(remoteConfig(t, fakeRemote(t, &seen))))

		var synced []remote.SyncResult
		svc.OnSynced(func(r remote.SyncResult) { synced = append(synced, r) })

		result, err := svc.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, remote.SyncResult{Devices: 1, Added: 2}, result)

		// an unchanged pass fires no hook
		_, err = svc.Sync(ctx)
		require.NoError(t, err)
		assert.Len(t, synced, 1)

		tablet, err := svc.Get(ctx, catalogs.KindDevice, 9)
		require.NoError(t, err)
		assert.Equal(t, []int64{10}, tablet.(*catalogs.Device).AddOnIDs())
	})
}

func TestServiceAutoSync(t *testing.T) {
	var seen atomic.Int32
	url := fakeRemote(t, &seen)

	var passes atomic.Int32
	svc := newService(t,
		WithRemote(remoteConfig(t, url)),
		WithAutoSyncInterval(10*time.Millisecond),
	)
	svc.OnSaved(func(catalogs.Entity) {})
	svc.OnSynced(func(remote.SyncResult) { passes.Add(1) })

	require.NoError(t, svc.AutoSyncOn())
	require.Eventually(t, func() bool { return passes.Load() >= 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, svc.AutoSyncOff())
	require.NoError(t, svc.AutoSyncOff())

	device, err := svc.Get(context.Background(), catalogs.KindDevice, 9)
	require.NoError(t, err)
	assert.Equal(t, "Tablet", device.(*catalogs.Device).Name)
}

func TestServiceDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	var deleted []int64
	svc.OnDeleted(func(kind catalogs.Kind, id int64) {
		assert.Equal(t, catalogs.KindAddOn, kind)
		deleted = append(deleted, id)
	})

	require.NoError(t, svc.Delete(ctx, catalogs.KindAddOn, 1))
	assert.Equal(t, []int64{1}, deleted)

	form, err := svc.Form(ctx, catalogs.KindDevice, 1)
	require.NoError(t, err)
	df, ok := form.(*forms.DeviceForm)
	require.True(t, ok)
	assert.Equal(t, []int64{2}, df.Entity().AddOnIDs())
}
