package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		fullname TEXT,
		bio TEXT,
		avatar_url TEXT,
		template TEXT DEFAULT 'default',
		category TEXT,
		subcategory TEXT,
		password_hash TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		label TEXT,
		is_link BOOLEAN NOT NULL DEFAULT 1,
		active BOOLEAN NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(owner_id) REFERENCES users(user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_entries_owner_id ON entries(owner_id);

	CREATE TABLE IF NOT EXISTS social_links (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		url TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_social_links_user_id ON social_links(user_id);

	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		price INTEGER NOT NULL DEFAULT 0,
		category TEXT,
		image_url TEXT
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(query); err != nil {
		return err
	}

	return seedListings(db)
}

// seedListings loads the static marketplace catalog on first run.
func seedListings(db *sql.DB) error {
	rows := []domain.Listing{
		{ID: "tpl-portfolio", Title: "Modern Portfolio Template", Description: "A sleek, responsive portfolio template for developers and designers.", Price: 19, Category: "Templates", ImageURL: "https://images.unsplash.com/photo-1461749280684-dccba630e2f6?auto=format&fit=crop&w=600&q=80"},
		{ID: "icons-minimal", Title: "Minimal Icon Pack", Description: "A set of 100+ minimal icons for web and mobile projects.", Price: 9, Category: "Icons", ImageURL: "https://images.unsplash.com/photo-1506744038136-46273834b3fb?auto=format&fit=crop&w=600&q=80"},
		{ID: "widget-analytics", Title: "Analytics Widget", Description: "A plug-and-play analytics widget for your dashboard.", Price: 29, Category: "Widgets", ImageURL: "https://images.unsplash.com/photo-1519389950473-47ba0277781c?auto=format&fit=crop&w=600&q=80"},
		{ID: "tpl-ecommerce", Title: "E-commerce UI Kit", Description: "A complete UI kit for building modern e-commerce apps.", Price: 39, Category: "Templates", ImageURL: "https://images.unsplash.com/photo-1519125323398-675f0ddb6308?auto=format&fit=crop&w=600&q=80"},
		{ID: "art-illustrations", Title: "Colorful Illustration Pack", Description: "Hand-drawn illustrations to make your site pop.", Price: 15, Category: "Illustrations", ImageURL: "https://images.unsplash.com/photo-1465101046530-73398c7f28ca?auto=format&fit=crop&w=600&q=80"},
		{ID: "widget-finance", Title: "Finance Dashboard Widget", Description: "A ready-to-use finance dashboard widget.", Price: 25, Category: "Widgets", ImageURL: "https://images.unsplash.com/photo-1504384308090-c894fdcc538d?auto=format&fit=crop&w=600&q=80"},
	}

	stmt := `INSERT OR IGNORE INTO listings (id, title, description, price, category, image_url) VALUES (?, ?, ?, ?, ?, ?)`
	for _, l := range rows {
		if _, err := db.Exec(stmt, l.ID, l.Title, l.Description, l.Price, l.Category, l.ImageURL); err != nil {
			return err
		}
	}
	return nil
}

// --- Entry Repository Implementation ---

func (r *SQLiteRepository) CreateEntry(ctx context.Context, entry *domain.Entry) error {
	query := `INSERT INTO entries (id, owner_id, label, is_link, active, position, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.OwnerID, entry.Label, entry.IsLink, entry.Active, entry.Position, entry.UpdatedAt)
	return err
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT id, owner_id, label, is_link, active, position, updated_at FROM entries WHERE id = ?`

	var e domain.Entry
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.OwnerID, &e.Label, &e.IsLink, &e.Active, &e.Position, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, ownerID string) ([]domain.Entry, error) {
	query := `SELECT id, owner_id, label, is_link, active, position, updated_at
			  FROM entries WHERE owner_id = ? ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Label, &e.IsLink, &e.Active, &e.Position, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertEntries inserts or updates by id in one transaction. Owner and
// is_link are fixed at creation and never overwritten by the update arm.
func (r *SQLiteRepository) UpsertEntries(ctx context.Context, entries []domain.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO entries (id, owner_id, label, is_link, active, position, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
				label = excluded.label,
				active = excluded.active,
				position = excluded.position,
				updated_at = excluded.updated_at`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, e.ID, e.OwnerID, e.Label, e.IsLink, e.Active, e.Position, e.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) CountEntries(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE owner_id = ?`, ownerID).Scan(&count)
	return count, err
}

// --- Profile Repository Implementation ---

func (r *SQLiteRepository) CreateProfile(ctx context.Context, profile *domain.Profile, passwordHash string) error {
	query := `INSERT INTO users (user_id, email, username, fullname, bio, avatar_url, template, category, subcategory, password_hash, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.Email, profile.Username, profile.Fullname, profile.Bio,
		profile.AvatarURL, profile.Template, profile.Category, profile.Subcategory,
		passwordHash, profile.CreatedAt, profile.UpdatedAt)
	return err
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.scanProfile(r.db.QueryRowContext(ctx,
		profileSelect+` WHERE user_id = ?`, userID))
}

func (r *SQLiteRepository) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return r.scanProfile(r.db.QueryRowContext(ctx,
		profileSelect+` WHERE username = ?`, username))
}

const profileSelect = `SELECT user_id, email, username, fullname, bio, avatar_url, template, category, subcategory, created_at, updated_at FROM users`

func (r *SQLiteRepository) scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	var fullname, bio, avatarURL, template, category, subcategory sql.NullString
	err := row.Scan(&p.UserID, &p.Email, &p.Username, &fullname, &bio, &avatarURL,
		&template, &category, &subcategory, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Fullname = fullname.String
	p.Bio = bio.String
	p.AvatarURL = avatarURL.String
	p.Template = template.String
	p.Category = category.String
	p.Subcategory = subcategory.String
	return &p, nil
}

func (r *SQLiteRepository) GetCredentials(ctx context.Context, email string) (string, string, error) {
	var userID string
	var hash sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT user_id, password_hash FROM users WHERE email = ?`, email).Scan(&userID, &hash)
	if err == sql.ErrNoRows {
		return "", "", domain.ErrNotFound
	}
	if err != nil {
		return "", "", err
	}
	return userID, hash.String, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	query := `UPDATE users SET username = ?, fullname = ?, bio = ?, avatar_url = ?, category = ?, subcategory = ?, updated_at = ? WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		profile.Username, profile.Fullname, profile.Bio, profile.AvatarURL,
		profile.Category, profile.Subcategory, profile.UpdatedAt, profile.UserID)
	return err
}

func (r *SQLiteRepository) SetTemplate(ctx context.Context, userID, template string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET template = ? WHERE user_id = ?`, template, userID)
	return err
}

func (r *SQLiteRepository) ListSocialLinks(ctx context.Context, userID string) ([]domain.SocialLink, error) {
	query := `SELECT id, user_id, platform, url, created_at FROM social_links WHERE user_id = ? ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.SocialLink
	for rows.Next() {
		var l domain.SocialLink
		if err := rows.Scan(&l.ID, &l.UserID, &l.Platform, &l.URL, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) CreateSocialLink(ctx context.Context, link *domain.SocialLink) error {
	query := `INSERT INTO social_links (id, user_id, platform, url, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, link.ID, link.UserID, link.Platform, link.URL, link.CreatedAt)
	return err
}

func (r *SQLiteRepository) UpdateSocialLink(ctx context.Context, link *domain.SocialLink) error {
	query := `UPDATE social_links SET platform = ?, url = ? WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, link.Platform, link.URL, link.ID, link.UserID)
	return err
}

func (r *SQLiteRepository) DeleteSocialLink(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM social_links WHERE id = ?`, id)
	return err
}

// --- Market Repository Implementation ---

func (r *SQLiteRepository) ListListings(ctx context.Context) ([]domain.Listing, error) {
	query := `SELECT id, title, description, price, category, image_url FROM listings ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		var description, category, imageURL sql.NullString
		if err := rows.Scan(&l.ID, &l.Title, &description, &l.Price, &category, &imageURL); err != nil {
			return nil, err
		}
		l.Description = description.String
		l.Category = category.String
		l.ImageURL = imageURL.String
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *SQLiteRepository) CreateFeedback(ctx context.Context, feedback *domain.Feedback) error {
	query := `INSERT INTO feedback (id, user_id, content, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, feedback.ID, feedback.UserID, feedback.Content, feedback.CreatedAt)
	return err
}

// Ensure interface compliance
var (
	_ ports.EntryRepository   = (*SQLiteRepository)(nil)
	_ ports.ProfileRepository = (*SQLiteRepository)(nil)
	_ ports.MarketRepository  = (*SQLiteRepository)(nil)
)
