package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raushankrgupta/threadline/colors"
	"github.com/raushankrgupta/threadline/models"
)

type userRow struct {
	ID        string `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex"`
	CreatedAt time.Time
}

func (userRow) TableName() string { return "users" }

type garmentRow struct {
	ID            string `gorm:"primaryKey"`
	Username      string `gorm:"index"`
	Type          string `gorm:"index"`
	Subtype       string
	Fit           string
	Occasion      string
	ColorL        *float64
	ColorA        *float64
	ColorB        *float64
	Color2L       *float64
	Color2A       *float64
	Color2B       *float64
	Layerable     bool
	Precip        string
	Season        string
	ImageFilename string
	Tags          datatypes.JSONMap
	IsDeleted     bool `gorm:"index"`
	CreatedAt     time.Time
}

func (garmentRow) TableName() string { return "clothing" }

type outfitRow struct {
	ID       string          `gorm:"primaryKey"`
	Username string          `gorm:"index"`
	DateWorn time.Time       `gorm:"index"`
	Items    []outfitItemRow `gorm:"foreignKey:OutfitID"`
}

func (outfitRow) TableName() string { return "outfits" }

type outfitItemRow struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	OutfitID   string `gorm:"index"`
	ClothingID string `gorm:"index"`
}

func (outfitItemRow) TableName() string { return "outfit_items" }

// SQLStore keeps the wardrobe in a local SQLite database.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens the database at dbPath and migrates the schema.
func NewSQLStore(dbPath string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&userRow{}, &garmentRow{}, &outfitRow{}, &outfitItemRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func (s *SQLStore) EnsureUser(ctx context.Context, username string) (models.User, error) {
	row := userRow{ID: uuid.NewString(), Username: username, CreatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	var stored userRow
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&stored).Error; err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return models.User{ID: stored.ID, Username: stored.Username, CreatedAt: stored.CreatedAt}, nil
}

func (s *SQLStore) CreateGarment(ctx context.Context, g *models.Garment) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	row := toGarmentRow(*g)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create garment: %w", err)
	}
	return nil
}

func (s *SQLStore) garments(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Garment, error) {
	var rows []garmentRow
	q := s.db.WithContext(ctx).Model(&garmentRow{}).Where("is_deleted = ?", false)
	if err := scope(q).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query garments: %w", err)
	}
	out := make([]models.Garment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *SQLStore) ListGarments(ctx context.Context, username string) ([]models.Garment, error) {
	return s.garments(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("username = ?", username)
	})
}

func (s *SQLStore) GarmentsByType(ctx context.Context, username string, t models.ClothingType) ([]models.Garment, error) {
	return s.garments(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("username = ? AND type = ?", username, string(t))
	})
}

func (s *SQLStore) ActiveGarments(ctx context.Context, username string, season models.Season) ([]models.Garment, error) {
	return s.garments(ctx, func(q *gorm.DB) *gorm.DB {
		q = q.Where("username = ?", username)
		if season.IsWinter() {
			return q.Where("season = ?", string(models.SeasonWinter))
		}
		return q.Where("season <> ?", string(models.SeasonWinter))
	})
}

func (s *SQLStore) GarmentsByIDs(ctx context.Context, username string, ids []string) ([]models.Garment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.garments(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("username = ? AND id IN ?", username, ids)
	})
}

func (s *SQLStore) SoftDeleteGarments(ctx context.Context, username string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := s.db.WithContext(ctx).Model(&garmentRow{}).
		Where("username = ? AND id IN ? AND is_deleted = ?", username, ids, false).
		Update("is_deleted", true)
	if tx.Error != nil {
		return 0, fmt.Errorf("soft delete garments: %w", tx.Error)
	}
	return int(tx.RowsAffected), nil
}

func (s *SQLStore) CreateOutfit(ctx context.Context, o *models.Outfit) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.DateWorn.IsZero() {
		o.DateWorn = time.Now()
	}
	o.DateWorn = o.DateWorn.UTC()

	row := outfitRow{ID: o.ID, Username: o.Username, DateWorn: o.DateWorn}
	for _, id := range o.ClothingIDs {
		row.Items = append(row.Items, outfitItemRow{OutfitID: o.ID, ClothingID: id})
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create outfit: %w", err)
	}
	return nil
}

func (s *SQLStore) outfits(ctx context.Context, q *gorm.DB) ([]models.Outfit, error) {
	var rows []outfitRow
	err := q.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("date_worn DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query outfits: %w", err)
	}
	out := make([]models.Outfit, 0, len(rows))
	for _, r := range rows {
		o := models.Outfit{ID: r.ID, Username: r.Username, DateWorn: r.DateWorn}
		for _, item := range r.Items {
			o.ClothingIDs = append(o.ClothingIDs, item.ClothingID)
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *SQLStore) RecentOutfits(ctx context.Context, username string, limit int) ([]models.Outfit, error) {
	q := s.db.Where("username = ?", username)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return s.outfits(ctx, q)
}

func (s *SQLStore) OutfitsSince(ctx context.Context, username string, since time.Time) ([]models.Outfit, error) {
	return s.outfits(ctx, s.db.Where("username = ? AND date_worn >= ?", username, since.UTC()))
}

func (s *SQLStore) WearHistory(ctx context.Context, username string) ([]models.WornRecord, error) {
	outfits, err := s.outfits(ctx, s.db.Where("username = ?", username))
	if err != nil {
		return nil, err
	}
	records := models.FlattenWornRecords(outfits)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DateWorn.Before(records[j].DateWorn)
	})
	return records, nil
}

func toGarmentRow(g models.Garment) garmentRow {
	row := garmentRow{
		ID:            g.ID,
		Username:      g.Username,
		Type:          string(g.Type),
		Subtype:       string(g.Subtype),
		Fit:           string(g.Fit),
		Occasion:      string(g.Occasion),
		Layerable:     g.Layerable,
		Precip:        string(g.Precip),
		Season:        string(g.Season),
		ImageFilename: g.ImageFilename,
		IsDeleted:     g.IsDeleted,
		CreatedAt:     g.CreatedAt.UTC(),
	}
	row.ColorL, row.ColorA, row.ColorB = splitLab(g.PrimaryColor)
	row.Color2L, row.Color2A, row.Color2B = splitLab(g.SecondaryColor)
	if len(g.Tags) > 0 {
		row.Tags = datatypes.JSONMap{}
		for k, v := range g.Tags {
			row.Tags[k] = v
		}
	}
	return row
}

func (r garmentRow) toModel() models.Garment {
	g := models.Garment{
		ID:             r.ID,
		Username:       r.Username,
		Type:           models.ClothingType(r.Type),
		Subtype:        models.Subtype(r.Subtype),
		Fit:            models.Fit(r.Fit),
		Occasion:       models.Occasion(r.Occasion),
		PrimaryColor:   joinLab(r.ColorL, r.ColorA, r.ColorB),
		SecondaryColor: joinLab(r.Color2L, r.Color2A, r.Color2B),
		Layerable:      r.Layerable,
		Precip:         models.Precip(r.Precip),
		Season:         models.Season(r.Season),
		ImageFilename:  r.ImageFilename,
		IsDeleted:      r.IsDeleted,
		CreatedAt:      r.CreatedAt,
	}
	if len(r.Tags) > 0 {
		g.Tags = make(map[string]string, len(r.Tags))
		for k, v := range r.Tags {
			g.Tags[k] = fmt.Sprint(v)
		}
	}
	return g
}

func splitLab(c *colors.Lab) (l, a, b *float64) {
	if c == nil {
		return nil, nil, nil
	}
	return &c.L, &c.A, &c.B
}

func joinLab(l, a, b *float64) *colors.Lab {
	if l == nil || a == nil || b == nil {
		return nil
	}
	return &colors.Lab{L: *l, A: *a, B: *b}
}
