package service

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/repository"
)

// fakeStore is an in-memory Store. ExecTx snapshots the mutable tables and
// restores them when fn fails, so rollback behaviour can be asserted.
type fakeStore struct {
	products     map[uuid.UUID]repository.Product
	variantRows  map[uuid.UUID][]repository.ListVariantRowsRow
	comboRows    map[uuid.UUID][]repository.ListCombinationValuesRow
	inventory    map[int64][]repository.Inventory
	lines        []repository.CartLine
	lineVariants map[uuid.UUID][]repository.CartLineVariant
	uploads      []repository.UploadedFile

	// errs injects a failure for the named method.
	errs map[string]error
	// calls counts invocations per method.
	calls map[string]int

	nextVariantRowID int64
	clock            time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:     map[uuid.UUID]repository.Product{},
		variantRows:  map[uuid.UUID][]repository.ListVariantRowsRow{},
		comboRows:    map[uuid.UUID][]repository.ListCombinationValuesRow{},
		inventory:    map[int64][]repository.Inventory{},
		lineVariants: map[uuid.UUID][]repository.CartLineVariant{},
		errs:         map[string]error{},
		calls:        map[string]int{},
		clock:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

var _ Store = (*fakeStore)(nil)

func (f *fakeStore) hit(name string) error {
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeStore) tick() pgtype.Timestamptz {
	f.clock = f.clock.Add(time.Second)
	return pgtype.Timestamptz{Time: f.clock, Valid: true}
}

func (f *fakeStore) ExecTx(ctx context.Context, fn func(q repository.Querier) error) error {
	if err := f.hit("ExecTx"); err != nil {
		return err
	}
	lines := slices.Clone(f.lines)
	variants := map[uuid.UUID][]repository.CartLineVariant{}
	for k, v := range f.lineVariants {
		variants[k] = slices.Clone(v)
	}
	uploads := slices.Clone(f.uploads)

	if err := fn(f); err != nil {
		f.lines = lines
		f.lineVariants = variants
		f.uploads = uploads
		return err
	}
	return nil
}

// seeding helpers

func (f *fakeStore) addProduct(name, slug string, baseCents int64) uuid.UUID {
	id := uuid.New()
	f.products[id] = repository.Product{
		ID:             pgUUID(id),
		Name:           name,
		Slug:           slug,
		Category:       "print",
		BasePriceCents: baseCents,
		CreatedAt:      f.tick(),
	}
	return id
}

func (f *fakeStore) addValue(productID uuid.UUID, groupID int64, groupName string, valueID int64, valueName string, deltaCents int64, isDefault bool) {
	f.variantRows[productID] = append(f.variantRows[productID], repository.ListVariantRowsRow{
		GroupID:         groupID,
		GroupName:       groupName,
		InputStyle:      "select",
		ValueID:         valueID,
		ValueName:       valueName,
		PriceDeltaCents: deltaCents,
		IsDefault:       isDefault,
	})
}

func (f *fakeStore) addCombination(productID uuid.UUID, comboID int64, valueIDs ...int64) {
	for _, v := range valueIDs {
		f.comboRows[productID] = append(f.comboRows[productID], repository.ListCombinationValuesRow{
			CombinationID:  comboID,
			VariantValueID: v,
		})
	}
}

func (f *fakeStore) addInventory(comboID int64, qty int32, status string) {
	f.inventory[comboID] = append(f.inventory[comboID], repository.Inventory{
		ID:                int64(len(f.inventory[comboID]) + 1),
		CombinationID:     comboID,
		Quantity:          qty,
		LowStockThreshold: 5,
		Status:            status,
		CreatedAt:         f.tick(),
	})
}

func (f *fakeStore) addUpload(userID uuid.UUID, key string) uuid.UUID {
	id := uuid.New()
	f.uploads = append(f.uploads, repository.UploadedFile{
		ID:          pgUUID(id),
		UserID:      pgUUID(userID),
		StorageKey:  key,
		Filename:    "design.png",
		ContentType: "image/png",
		SizeBytes:   1024,
		CreatedAt:   f.tick(),
	})
	return id
}

func (f *fakeStore) lineCount() int {
	return len(f.lines)
}

// repository.Querier

func (f *fakeStore) GetProduct(ctx context.Context, id pgtype.UUID) (repository.Product, error) {
	if err := f.hit("GetProduct"); err != nil {
		return repository.Product{}, err
	}
	p, ok := f.products[fromPGUUID(id)]
	if !ok {
		return repository.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) ListProducts(ctx context.Context, arg repository.ListProductsParams) ([]repository.Product, error) {
	if err := f.hit("ListProducts"); err != nil {
		return nil, err
	}
	var out []repository.Product
	for _, id := range slices.Collect(maps.Keys(f.products)) {
		p := f.products[id]
		if arg.Search != "" && !containsFold(p.Name, arg.Search) {
			continue
		}
		if arg.Category != "" && p.Category != arg.Category {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b repository.Product) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	if int(arg.Limit) < len(out) {
		out = out[:arg.Limit]
	}
	return out, nil
}

func (f *fakeStore) ListVariantRows(ctx context.Context, productID pgtype.UUID) ([]repository.ListVariantRowsRow, error) {
	if err := f.hit("ListVariantRows"); err != nil {
		return nil, err
	}
	return slices.Clone(f.variantRows[fromPGUUID(productID)]), nil
}

func (f *fakeStore) ListCombinationValues(ctx context.Context, productID pgtype.UUID) ([]repository.ListCombinationValuesRow, error) {
	if err := f.hit("ListCombinationValues"); err != nil {
		return nil, err
	}
	return slices.Clone(f.comboRows[fromPGUUID(productID)]), nil
}

func (f *fakeStore) ListInventoryByCombination(ctx context.Context, combinationID int64) ([]repository.Inventory, error) {
	if err := f.hit("ListInventoryByCombination"); err != nil {
		return nil, err
	}
	return slices.Clone(f.inventory[combinationID]), nil
}

func (f *fakeStore) LockCartSignature(ctx context.Context, arg repository.LockCartSignatureParams) error {
	return f.hit("LockCartSignature")
}

func (f *fakeStore) GetCartLine(ctx context.Context, id pgtype.UUID) (repository.CartLine, error) {
	if err := f.hit("GetCartLine"); err != nil {
		return repository.CartLine{}, err
	}
	for _, l := range f.lines {
		if l.ID == id {
			return l, nil
		}
	}
	return repository.CartLine{}, pgx.ErrNoRows
}

func (f *fakeStore) ListCartLinesByProduct(ctx context.Context, arg repository.ListCartLinesByProductParams) ([]repository.CartLine, error) {
	if err := f.hit("ListCartLinesByProduct"); err != nil {
		return nil, err
	}
	var out []repository.CartLine
	for _, l := range f.lines {
		if l.UserID == arg.UserID && l.ProductID == arg.ProductID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCartLinesByUser(ctx context.Context, userID pgtype.UUID) ([]repository.CartLine, error) {
	if err := f.hit("ListCartLinesByUser"); err != nil {
		return nil, err
	}
	var out []repository.CartLine
	for _, l := range f.lines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCartLineVariants(ctx context.Context, cartLineID pgtype.UUID) ([]repository.CartLineVariant, error) {
	if err := f.hit("ListCartLineVariants"); err != nil {
		return nil, err
	}
	return slices.Clone(f.lineVariants[fromPGUUID(cartLineID)]), nil
}

func (f *fakeStore) CreateCartLine(ctx context.Context, arg repository.CreateCartLineParams) (repository.CartLine, error) {
	if err := f.hit("CreateCartLine"); err != nil {
		return repository.CartLine{}, err
	}
	now := f.tick()
	l := repository.CartLine{
		ID:              pgUUID(uuid.New()),
		UserID:          arg.UserID,
		ProductID:       arg.ProductID,
		Quantity:        arg.Quantity,
		UnitPriceCents:  arg.UnitPriceCents,
		TotalPriceCents: arg.TotalPriceCents,
		Route:           arg.Route,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.lines = append(f.lines, l)
	return l, nil
}

func (f *fakeStore) UpdateCartLine(ctx context.Context, arg repository.UpdateCartLineParams) (repository.CartLine, error) {
	if err := f.hit("UpdateCartLine"); err != nil {
		return repository.CartLine{}, err
	}
	for i, l := range f.lines {
		if l.ID != arg.ID {
			continue
		}
		l.Quantity = arg.Quantity
		l.UnitPriceCents = arg.UnitPriceCents
		l.TotalPriceCents = arg.TotalPriceCents
		l.UpdatedAt = f.tick()
		f.lines[i] = l
		return l, nil
	}
	return repository.CartLine{}, pgx.ErrNoRows
}

func (f *fakeStore) DeleteCartLine(ctx context.Context, arg repository.DeleteCartLineParams) (int64, error) {
	if err := f.hit("DeleteCartLine"); err != nil {
		return 0, err
	}
	for i, l := range f.lines {
		if l.ID == arg.ID && l.UserID == arg.UserID {
			f.lines = slices.Delete(f.lines, i, i+1)
			delete(f.lineVariants, fromPGUUID(arg.ID))
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) CreateCartLineVariant(ctx context.Context, arg repository.CreateCartLineVariantParams) (repository.CartLineVariant, error) {
	if err := f.hit("CreateCartLineVariant"); err != nil {
		return repository.CartLineVariant{}, err
	}
	key := fromPGUUID(arg.CartLineID)
	for _, v := range f.lineVariants[key] {
		if v.VariantValueID == arg.VariantValueID {
			return repository.CartLineVariant{}, &pgconn.PgError{Code: "23505", ConstraintName: "cart_line_variants_cart_line_id_variant_value_id_key"}
		}
	}
	f.nextVariantRowID++
	row := repository.CartLineVariant{
		ID:              f.nextVariantRowID,
		CartLineID:      arg.CartLineID,
		VariantValueID:  arg.VariantValueID,
		PriceDeltaCents: arg.PriceDeltaCents,
	}
	f.lineVariants[key] = append(f.lineVariants[key], row)
	return row, nil
}

func (f *fakeStore) DeleteCartLineVariants(ctx context.Context, cartLineID pgtype.UUID) error {
	if err := f.hit("DeleteCartLineVariants"); err != nil {
		return err
	}
	delete(f.lineVariants, fromPGUUID(cartLineID))
	return nil
}

func (f *fakeStore) CreateUploadedFile(ctx context.Context, arg repository.CreateUploadedFileParams) (repository.UploadedFile, error) {
	if err := f.hit("CreateUploadedFile"); err != nil {
		return repository.UploadedFile{}, err
	}
	u := repository.UploadedFile{
		ID:          pgUUID(uuid.New()),
		UserID:      arg.UserID,
		ProductID:   arg.ProductID,
		StorageKey:  arg.StorageKey,
		Filename:    arg.Filename,
		ContentType: arg.ContentType,
		SizeBytes:   arg.SizeBytes,
		CreatedAt:   f.tick(),
	}
	f.uploads = append(f.uploads, u)
	return u, nil
}

func (f *fakeStore) AttachUploadByID(ctx context.Context, arg repository.AttachUploadByIDParams) (int64, error) {
	if err := f.hit("AttachUploadByID"); err != nil {
		return 0, err
	}
	var n int64
	for i, u := range f.uploads {
		if u.ID == arg.ID && u.UserID == arg.UserID {
			f.uploads[i].CartLineID = arg.CartLineID
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) AttachUploadByStorageKey(ctx context.Context, arg repository.AttachUploadByStorageKeyParams) (int64, error) {
	if err := f.hit("AttachUploadByStorageKey"); err != nil {
		return 0, err
	}
	var n int64
	for i, u := range f.uploads {
		if u.StorageKey == arg.StorageKey && u.UserID == arg.UserID {
			f.uploads[i].CartLineID = arg.CartLineID
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListUploadsByCartLine(ctx context.Context, cartLineID pgtype.UUID) ([]repository.UploadedFile, error) {
	if err := f.hit("ListUploadsByCartLine"); err != nil {
		return nil, err
	}
	var out []repository.UploadedFile
	for _, u := range f.uploads {
		if u.CartLineID == cartLineID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOrphanedUploads(ctx context.Context, createdBefore pgtype.Timestamptz) ([]repository.UploadedFile, error) {
	if err := f.hit("ListOrphanedUploads"); err != nil {
		return nil, err
	}
	var out []repository.UploadedFile
	for _, u := range f.uploads {
		if !u.CartLineID.Valid && u.CreatedAt.Time.Before(createdBefore.Time) {
			out = append(out, u)
		}
	}
	return out, nil
}

// shared test fixtures

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticProfiles map[string]domain.ProductProfile

func (p staticProfiles) Profile(slug string) domain.ProductProfile {
	return p[slug]
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
