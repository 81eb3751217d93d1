// Package sqlite implements a catalog store backed by a SQLite database.
//
// Relationships are stored as foreign keys: device add-ons in a join table
// keeping their order, every other reference as a nullable id column. Reads
// load relationships eagerly.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/constants"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
	"github.com/agentstation/techmarket/pkg/relation"
)

//go:embed schema.sql
var schema string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store persists the catalog in SQLite.
type Store struct {
	db     *sql.DB
	logger *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens the database at path, creating it and its schema when needed.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &errors.ConfigError{Component: "sqlite", Message: "database path is required"}
	}

	dsn := "file::memory:?_pragma=foreign_keys(1)"
	if path != MemoryPath {
		path = filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", filepath.Dir(path), err)
		}
		dsn = "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// one connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("open", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("create", "schema", path, err)
	}

	s := &Store{db: db, logger: logging.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug().Str("path", path).Msg("Opened SQLite catalog")
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Reads

type scanner interface {
	Scan(dest ...any) error
}

func collect[T any](ctx context.Context, db *sql.DB, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// where filters a query on column when id is set.
func where(column string, id int64) (string, []any) {
	if id == 0 {
		return "", nil
	}
	return " WHERE " + column + " = ?", []any{id}
}

const (
	deviceColumns         = "id, code, name, description, base_price, currency"
	addOnColumns          = "id, name, description, price, free_price"
	characteristicColumns = "id, name, description, device_id"
	customizationColumns  = "id, name, description, device_id"
	optionColumns         = "id, code, name, description, extra_price, customization_id"
	saleColumns           = "id, sold_at, final_price, device_id, user_id"
)

func scanDevice(r scanner) (*catalogs.Device, error) {
	d := &catalogs.Device{}
	return d, r.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &d.BasePrice, &d.Currency)
}

func scanAddOn(r scanner) (*catalogs.AddOn, error) {
	a := &catalogs.AddOn{}
	var free sql.NullFloat64
	if err := r.Scan(&a.ID, &a.Name, &a.Description, &a.Price, &free); err != nil {
		return nil, err
	}
	if free.Valid {
		a.FreePrice = &free.Float64
	}
	return a, nil
}

type addOnLink struct {
	deviceID int64
	addOn    *catalogs.AddOn
}

func scanAddOnLink(r scanner) (addOnLink, error) {
	var l addOnLink
	a := &catalogs.AddOn{}
	var free sql.NullFloat64
	if err := r.Scan(&l.deviceID, &a.ID, &a.Name, &a.Description, &a.Price, &free); err != nil {
		return l, err
	}
	if free.Valid {
		a.FreePrice = &free.Float64
	}
	l.addOn = a
	return l, nil
}

func scanCharacteristic(r scanner) (*catalogs.Characteristic, error) {
	ch := &catalogs.Characteristic{}
	var device sql.NullInt64
	if err := r.Scan(&ch.ID, &ch.Name, &ch.Description, &device); err != nil {
		return nil, err
	}
	if device.Valid {
		ch.Device = &catalogs.Device{ID: device.Int64}
	}
	return ch, nil
}

func scanCustomization(r scanner) (*catalogs.Customization, error) {
	cu := &catalogs.Customization{}
	var device sql.NullInt64
	if err := r.Scan(&cu.ID, &cu.Name, &cu.Description, &device); err != nil {
		return nil, err
	}
	if device.Valid {
		cu.Device = &catalogs.Device{ID: device.Int64}
	}
	return cu, nil
}

func scanOption(r scanner) (*catalogs.Option, error) {
	o := &catalogs.Option{}
	var owner sql.NullInt64
	if err := r.Scan(&o.ID, &o.Code, &o.Name, &o.Description, &o.ExtraPrice, &owner); err != nil {
		return nil, err
	}
	if owner.Valid {
		o.Customization = &catalogs.Customization{ID: owner.Int64}
	}
	return o, nil
}

func scanSale(r scanner) (*catalogs.Sale, error) {
	sale := &catalogs.Sale{}
	var soldAt int64
	var user sql.NullInt64
	if err := r.Scan(&sale.ID, &soldAt, &sale.FinalPrice, &sale.DeviceID, &user); err != nil {
		return nil, err
	}
	sale.Date = fromMillis(soldAt)
	if user.Valid {
		sale.User = &catalogs.User{ID: user.Int64}
	}
	return sale, nil
}

func scanUser(r scanner) (*catalogs.User, error) {
	u := &catalogs.User{}
	return u, r.Scan(&u.ID, &u.Login)
}

// Devices returns every device with its add-ons in attachment order.
func (s *Store) Devices(ctx context.Context) ([]*catalogs.Device, error) {
	return s.devices(ctx, 0)
}

func (s *Store) devices(ctx context.Context, id int64) ([]*catalogs.Device, error) {
	filter, args := where("id", id)
	devices, err := collect(ctx, s.db, scanDevice, "SELECT "+deviceColumns+" FROM devices"+filter+" ORDER BY id", args...)
	if err != nil {
		return nil, errors.WrapResource("list", "devices", "", err)
	}

	filter, args = where("l.device_id", id)
	links, err := collect(ctx, s.db, scanAddOnLink,
		`SELECT l.device_id, a.id, a.name, a.description, a.price, a.free_price
		   FROM device_add_ons l
		   JOIN add_ons a ON a.id = l.add_on_id`+filter+`
		  ORDER BY l.device_id, l.position`, args...)
	if err != nil {
		return nil, errors.WrapResource("list", "device add-ons", "", err)
	}

	byDevice := make(map[int64][]*catalogs.AddOn, len(devices))
	for _, l := range links {
		byDevice[l.deviceID] = append(byDevice[l.deviceID], l.addOn)
	}
	for _, d := range devices {
		d.AddOns = byDevice[d.ID]
		if d.AddOns == nil {
			d.AddOns = []*catalogs.AddOn{}
		}
	}
	if err := s.attachBackRefs(ctx, devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// attachBackRefs lists the characteristics and customizations of each device.
func (s *Store) attachBackRefs(ctx context.Context, devices []*catalogs.Device) error {
	if len(devices) == 0 {
		return nil
	}
	chars, err := s.characteristics(ctx, 0)
	if err != nil {
		return err
	}
	custs, err := s.customizations(ctx, 0, true)
	if err != nil {
		return err
	}

	charsOf := make(map[int64][]*catalogs.Characteristic)
	for _, ch := range chars {
		if ch.Device != nil {
			charsOf[ch.Device.ID] = append(charsOf[ch.Device.ID], ch)
		}
	}
	custsOf := make(map[int64][]*catalogs.Customization)
	for _, cu := range custs {
		if cu.Device != nil {
			custsOf[cu.Device.ID] = append(custsOf[cu.Device.ID], cu)
		}
	}
	for _, d := range devices {
		d.Characteristics = charsOf[d.ID]
		d.Customizations = custsOf[d.ID]
	}
	return nil
}

// deviceRefs maps every device id to a reference without add-ons.
func (s *Store) deviceRefs(ctx context.Context) (map[int64]*catalogs.Device, error) {
	devices, err := collect(ctx, s.db, scanDevice, "SELECT "+deviceColumns+" FROM devices")
	if err != nil {
		return nil, errors.WrapResource("list", "devices", "", err)
	}
	refs := make(map[int64]*catalogs.Device, len(devices))
	for _, d := range devices {
		refs[d.ID] = d
	}
	return refs, nil
}

// AddOns returns every add-on.
func (s *Store) AddOns(ctx context.Context) ([]*catalogs.AddOn, error) {
	return s.addOns(ctx, 0)
}

func (s *Store) addOns(ctx context.Context, id int64) ([]*catalogs.AddOn, error) {
	filter, args := where("id", id)
	items, err := collect(ctx, s.db, scanAddOn, "SELECT "+addOnColumns+" FROM add_ons"+filter+" ORDER BY id", args...)
	if err != nil {
		return nil, errors.WrapResource("list", "add-ons", "", err)
	}
	return items, nil
}

// Characteristics returns every characteristic with its device.
func (s *Store) Characteristics(ctx context.Context) ([]*catalogs.Characteristic, error) {
	return s.characteristics(ctx, 0)
}

func (s *Store) characteristics(ctx context.Context, id int64) ([]*catalogs.Characteristic, error) {
	filter, args := where("id", id)
	items, err := collect(ctx, s.db, scanCharacteristic, "SELECT "+characteristicColumns+" FROM characteristics"+filter+" ORDER BY id", args...)
	if err != nil {
		return nil, errors.WrapResource("list", "characteristics", "", err)
	}
	refs, err := s.deviceRefs(ctx)
	if err != nil {
		return nil, err
	}
	for _, ch := range items {
		if ch.Device != nil {
			ch.Device = refs[ch.Device.ID].Ref()
		}
	}
	return items, nil
}

// Customizations returns every customization with its device and options.
func (s *Store) Customizations(ctx context.Context) ([]*catalogs.Customization, error) {
	return s.customizations(ctx, 0, true)
}

func (s *Store) customizations(ctx context.Context, id int64, withOptions bool) ([]*catalogs.Customization, error) {
	filter, args := where("id", id)
	items, err := collect(ctx, s.db, scanCustomization, "SELECT "+customizationColumns+" FROM customizations"+filter+" ORDER BY id", args...)
	if err != nil {
		return nil, errors.WrapResource("list", "customizations", "", err)
	}
	refs, err := s.deviceRefs(ctx)
	if err != nil {
		return nil, err
	}
	for _, cu := range items {
		if cu.Device != nil {
			cu.Device = refs[cu.Device.ID].Ref()
		}
	}
	if !withOptions {
		return items, nil
	}

	filter, args = where("customization_id", id)
	if filter == "" {
		filter = " WHERE customization_id IS NOT NULL"
	}
	options, err := collect(ctx, s.db, scanOption, "SELECT "+optionColumns+" FROM options"+filter+" ORDER BY id", args...)
	if err != nil {
		return nil, errors.WrapResource("list", "options", "", err)
	}
	byOwner := make(map[int64][]*catalogs.Option)
	for _, o := range options {
		byOwner[o.Customization.ID] = append(byOwner[o.Customization.ID], o)
	}
	for _, cu := range items {
		for _, o := range byOwner[cu.ID] {
			o.Customization = cu.Ref()
			cu.Options = append(cu.Options, o)
		}
	}
	return items, nil
}

// Options returns every option with its customization.
func (s *Store) Options(ctx context.Context) ([]*catalogs.Option, error) {
	return s.options(ctx, 0)
}

func (s *Store) options(ctx context.Context, id int64) ([]*catalogs.Option, error) {
	filter, args := where("id", id)
	items, err := collect(ctx, s.db, scanOption, "SELECT "+optionColumns+" FROM options"+filter+" ORDER BY id", args...)
	if err != nil {
		return nil, errors.WrapResource("list", "options", "", err)
	}
	owners, err := s.customizations(ctx, 0, false)
	if err != nil {
		return nil, err
	}
	for _, o := range items {
		if o.Customization == nil {
			continue
		}
		owner, _ := relation.Find(owners, o.Customization.ID)
		o.Customization = owner.Ref()
	}
	return items, nil
}

// Sales returns every sale with its user.
func (s *Store) Sales(ctx context.Context) ([]*catalogs.Sale, error) {
	return s.sales(ctx, 0)
}

func (s *Store) sales(ctx context.Context, id int64) ([]*catalogs.Sale, error) {
	filter, args := where("id", id)
	items, err := collect(ctx, s.db, scanSale, "SELECT "+saleColumns+" FROM sales"+filter+" ORDER BY id", args...)
	if err != nil {
		return nil, errors.WrapResource("list", "sales", "", err)
	}
	users, err := s.users(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, sale := range items {
		if sale.User == nil {
			continue
		}
		u, _ := relation.Find(users, sale.User.ID)
		sale.User = u
	}
	return items, nil
}

// Users returns every user.
func (s *Store) Users(ctx context.Context) ([]*catalogs.User, error) {
	return s.users(ctx, 0)
}

func (s *Store) users(ctx context.Context, id int64) ([]*catalogs.User, error) {
	filter, args := where("id", id)
	items, err := collect(ctx, s.db, scanUser, "SELECT id, login FROM users"+filter+" ORDER BY id", args...)
	if err != nil {
		return nil, errors.WrapResource("list", "users", "", err)
	}
	return items, nil
}

// Get returns one entity with its relationships.
func (s *Store) Get(ctx context.Context, kind catalogs.Kind, id int64) (catalogs.Entity, error) {
	if id <= 0 {
		return nil, errors.NewNotFoundError(kind.String(), id)
	}

	var (
		items []catalogs.Entity
		err   error
	)
	switch kind {
	case catalogs.KindDevice:
		items, err = entities(s.devices(ctx, id))
	case catalogs.KindAddOn:
		items, err = entities(s.addOns(ctx, id))
	case catalogs.KindCharacteristic:
		items, err = entities(s.characteristics(ctx, id))
	case catalogs.KindCustomization:
		items, err = entities(s.customizations(ctx, id, true))
	case catalogs.KindOption:
		items, err = entities(s.options(ctx, id))
	case catalogs.KindSale:
		items, err = entities(s.sales(ctx, id))
	case catalogs.KindUser:
		items, err = entities(s.users(ctx, id))
	default:
		return nil, unknownKind(kind)
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NewNotFoundError(kind.String(), id)
	}
	return items[0], nil
}

func entities[T catalogs.Entity](items []T, err error) ([]catalogs.Entity, error) {
	if err != nil {
		return nil, err
	}
	out := make([]catalogs.Entity, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out, nil
}

// Writes

// Save validates e, checks its references and upserts it in one
// transaction. A customization with a non-nil Options slice becomes the
// owner of exactly those options.
func (s *Store) Save(ctx context.Context, e catalogs.Entity) error {
	if _, ok := relation.Key[int64](e); !ok {
		return &errors.ValidationError{Field: "entity", Message: "is required"}
	}
	if err := e.Validate(); err != nil {
		return err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return errors.WrapResource("begin", "transaction", "", err)
	}
	defer tx.discard()

	switch v := e.(type) {
	case *catalogs.Device:
		err = saveDevice(ctx, tx, v)
	case *catalogs.AddOn:
		var free sql.NullFloat64
		if v.FreePrice != nil {
			free = sql.NullFloat64{Float64: *v.FreePrice, Valid: true}
		}
		err = upsert(ctx, tx, "add_ons", &v.ID,
			[]string{"name", "description", "price", "free_price"},
			[]any{v.Name, v.Description, v.Price, free})
	case *catalogs.Characteristic:
		err = saveCharacteristic(ctx, tx, v)
	case *catalogs.Customization:
		err = saveCustomization(ctx, tx, v)
	case *catalogs.Option:
		err = saveOption(ctx, tx, v)
	case *catalogs.Sale:
		err = saveSale(ctx, tx, v)
	case *catalogs.User:
		err = upsert(ctx, tx, "users", &v.ID, []string{"login"}, []any{v.Login})
	default:
		return unknownKind(e.Kind())
	}
	if err != nil {
		if errors.IsNotFound(err) {
			return err
		}
		return errors.WrapResource("save", e.Kind().String(), fmt.Sprint(e.RefID()), err)
	}
	if err := tx.commit(); err != nil {
		return errors.WrapResource("commit", e.Kind().String(), fmt.Sprint(e.RefID()), err)
	}

	s.logger.Debug().
		Str("entity", e.Kind().String()).
		Int64("entity_id", e.RefID()).
		Msg("Saved entity")
	return nil
}

func saveDevice(ctx context.Context, tx *saveTx, d *catalogs.Device) error {
	addOnIDs := relation.IDs[int64](relation.Merge[int64](nil, d.AddOns))
	for _, id := range addOnIDs {
		if err := mustExist(ctx, tx, catalogs.KindAddOn, id); err != nil {
			return err
		}
	}

	err := upsert(ctx, tx, "devices", &d.ID,
		[]string{"code", "name", "description", "base_price", "currency"},
		[]any{d.Code, d.Name, d.Description, d.BasePrice, d.Currency})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM device_add_ons WHERE device_id = ?", d.ID); err != nil {
		return err
	}
	for i, id := range addOnIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO device_add_ons (device_id, add_on_id, position) VALUES (?, ?, ?)",
			d.ID, id, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func saveCharacteristic(ctx context.Context, tx *saveTx, ch *catalogs.Characteristic) error {
	device, err := reference(ctx, tx, catalogs.KindDevice, ch.Device)
	if err != nil {
		return err
	}
	return upsert(ctx, tx, "characteristics", &ch.ID,
		[]string{"name", "description", "device_id"},
		[]any{ch.Name, ch.Description, device})
}

func saveCustomization(ctx context.Context, tx *saveTx, cu *catalogs.Customization) error {
	device, err := reference(ctx, tx, catalogs.KindDevice, cu.Device)
	if err != nil {
		return err
	}
	optionIDs := relation.IDs[int64](cu.Options)
	for _, id := range optionIDs {
		if err := mustExist(ctx, tx, catalogs.KindOption, id); err != nil {
			return err
		}
	}

	err = upsert(ctx, tx, "customizations", &cu.ID,
		[]string{"name", "description", "device_id"},
		[]any{cu.Name, cu.Description, device})
	if err != nil || cu.Options == nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE options SET customization_id = NULL WHERE customization_id = ?", cu.ID); err != nil {
		return err
	}
	for _, id := range optionIDs {
		if _, err := tx.ExecContext(ctx, "UPDATE options SET customization_id = ? WHERE id = ?", cu.ID, id); err != nil {
			return err
		}
	}
	return nil
}

func saveOption(ctx context.Context, tx *saveTx, o *catalogs.Option) error {
	owner, err := reference(ctx, tx, catalogs.KindCustomization, o.Customization)
	if err != nil {
		return err
	}
	return upsert(ctx, tx, "options", &o.ID,
		[]string{"code", "name", "description", "extra_price", "customization_id"},
		[]any{o.Code, o.Name, o.Description, o.ExtraPrice, owner})
}

func saveSale(ctx context.Context, tx *saveTx, sale *catalogs.Sale) error {
	user, err := reference(ctx, tx, catalogs.KindUser, sale.User)
	if err != nil {
		return err
	}
	return upsert(ctx, tx, "sales", &sale.ID,
		[]string{"sold_at", "final_price", "device_id", "user_id"},
		[]any{toMillis(sale.Date), sale.FinalPrice, sale.DeviceID, user})
}

// saveTx is the transaction of one Save. It remembers the ids its inserts
// wrote back and zeroes them again unless the transaction commits.
type saveTx struct {
	*sql.Tx
	assigned []*int64
}

func (s *Store) begin(ctx context.Context) (*saveTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &saveTx{Tx: tx}, nil
}

func (tx *saveTx) commit() error {
	if err := tx.Commit(); err != nil {
		return err
	}
	tx.assigned = nil
	return nil
}

// discard rolls back an uncommitted transaction. It is a no-op after commit.
func (tx *saveTx) discard() {
	_ = tx.Rollback()
	for _, id := range tx.assigned {
		*id = 0
	}
	tx.assigned = nil
}

// upsert inserts a row, or replaces the row with the same id. A zero id is
// assigned by the database and written back.
func upsert(ctx context.Context, tx *saveTx, table string, id *int64, columns []string, values []any) error {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	if *id == 0 {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), marks),
			values...)
		if err != nil {
			return err
		}
		inserted, err := res.LastInsertId()
		if err != nil {
			return err
		}
		*id = inserted
		tx.assigned = append(tx.assigned, id)
		return nil
	}

	updates := make([]string, len(columns))
	for i, c := range columns {
		updates[i] = c + " = excluded." + c
	}
	_, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (?, %s) ON CONFLICT (id) DO UPDATE SET %s",
			table, strings.Join(columns, ", "), marks, strings.Join(updates, ", ")),
		append([]any{*id}, values...)...)
	return err
}

// reference checks that the target of ref exists and returns its id column
// value.
func reference[T relation.Ref[int64]](ctx context.Context, tx *saveTx, kind catalogs.Kind, ref T) (sql.NullInt64, error) {
	id, ok := relation.Key[int64](ref)
	if !ok {
		return sql.NullInt64{}, nil
	}
	if err := mustExist(ctx, tx, kind, id); err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

func mustExist(ctx context.Context, tx *saveTx, kind catalogs.Kind, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM "+table(kind)+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(kind.String(), id)
	}
	return err
}

// Delete removes an entity. Join rows go with it and references to it are
// set to null.
func (s *Store) Delete(ctx context.Context, kind catalogs.Kind, id int64) error {
	if !knownKind(kind) {
		return unknownKind(kind)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table(kind)+" WHERE id = ?", id)
	if err != nil {
		return errors.WrapResource("delete", kind.String(), fmt.Sprint(id), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WrapResource("delete", kind.String(), fmt.Sprint(id), err)
	}
	if n == 0 {
		return errors.NewNotFoundError(kind.String(), id)
	}
	return nil
}

func table(kind catalogs.Kind) string {
	return strings.ReplaceAll(kind.Plural(), "-", "_")
}

func knownKind(kind catalogs.Kind) bool {
	return slices.Contains(catalogs.Kinds(), kind)
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func unknownKind(kind catalogs.Kind) error {
	return &errors.ValidationError{Field: "kind", Value: kind, Message: "unknown entity kind"}
}
