package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-acf/pkg/acf"
)

// DefaultTablePrefix is the WordPress default table prefix
const DefaultTablePrefix = "wp_"

var tablePrefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements acf.Repository over the WordPress posts and postmeta tables
type Repository struct {
	db         DBTX
	postsTable string
	metaTable  string
}

// New creates a new PostgreSQL repository reading {prefix}posts and {prefix}postmeta
func New(db DBTX, tablePrefix string) (*Repository, error) {
	if !tablePrefixPattern.MatchString(tablePrefix) {
		return nil, fmt.Errorf("invalid table prefix %q", tablePrefix)
	}
	return &Repository{
		db:         db,
		postsTable: tablePrefix + "posts",
		metaTable:  tablePrefix + "postmeta",
	}, nil
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool, tablePrefix string) (*Repository, error) {
	return New(pool, tablePrefix)
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - check the table prefix: %s", pgErr.Message)
		case "42703": // undefined_column
			return fmt.Errorf("column %s does not exist in %s", pgErr.ColumnName, pgErr.TableName)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// escapeLike escapes LIKE wildcards so s is matched literally
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

const postColumns = `id, post_type, post_name, post_title, post_content, post_excerpt,
	post_status, post_mime_type, guid, post_parent`

func scanPost(row pgx.Row) (*acf.Post, error) {
	var post acf.Post
	err := row.Scan(
		&post.ID, &post.Type, &post.Name, &post.Title, &post.Content, &post.Excerpt,
		&post.Status, &post.MimeType, &post.GUID, &post.ParentID)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Post operations

func (r *Repository) GetPost(ctx context.Context, id int64) (*acf.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, postColumns, r.postsTable)

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, acf.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post", err)
	}
	return post, nil
}

func (r *Repository) GetPostsByIDs(ctx context.Context, ids []int64) ([]*acf.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1) ORDER BY id`, postColumns, r.postsTable)

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, r.handlePostgresError("get posts", err)
	}
	defer rows.Close()

	var posts []*acf.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("get posts", err)
	}
	return posts, nil
}

func (r *Repository) GetPostByName(ctx context.Context, postType, name string) (*acf.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE post_type = $1 AND post_name = $2
		ORDER BY id LIMIT 1`, postColumns, r.postsTable)

	post, err := scanPost(r.db.QueryRow(ctx, query, postType, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, acf.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post by name", err)
	}
	return post, nil
}

// Meta operations

func (r *Repository) GetMeta(ctx context.Context, postID int64, key string) (*acf.Meta, error) {
	query := fmt.Sprintf(`
		SELECT meta_id, post_id, meta_key, COALESCE(meta_value, '')
		FROM %s WHERE post_id = $1 AND meta_key = $2
		ORDER BY meta_id LIMIT 1`, r.metaTable)

	var meta acf.Meta
	err := r.db.QueryRow(ctx, query, postID, key).Scan(&meta.ID, &meta.PostID, &meta.Key, &meta.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, acf.ErrMetaNotFound
		}
		return nil, r.handlePostgresError("get meta", err)
	}
	return &meta, nil
}

func (r *Repository) ListMetaByPrefix(ctx context.Context, postID int64, prefix string) ([]*acf.Meta, error) {
	query := fmt.Sprintf(`
		SELECT meta_id, post_id, meta_key, COALESCE(meta_value, '')
		FROM %s WHERE post_id = $1 AND meta_key LIKE $2 ESCAPE '\'
		ORDER BY meta_id`, r.metaTable)

	return r.queryMeta(ctx, "list meta by prefix", query, postID, escapeLike(prefix+"_")+"%")
}

func (r *Repository) ListMetaForPosts(ctx context.Context, postIDs []int64, key string) ([]*acf.Meta, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT meta_id, post_id, meta_key, COALESCE(meta_value, '')
		FROM %s WHERE post_id = ANY($1) AND meta_key = $2
		ORDER BY meta_id`, r.metaTable)

	return r.queryMeta(ctx, "list meta for posts", query, postIDs, key)
}

func (r *Repository) queryMeta(ctx context.Context, operation, query string, args ...interface{}) ([]*acf.Meta, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError(operation, err)
	}
	defer rows.Close()

	var result []*acf.Meta
	for rows.Next() {
		var meta acf.Meta
		if err := rows.Scan(&meta.ID, &meta.PostID, &meta.Key, &meta.Value); err != nil {
			return nil, r.handlePostgresError(operation, err)
		}
		result = append(result, &meta)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError(operation, err)
	}
	return result, nil
}
