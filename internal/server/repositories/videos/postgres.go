package videos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roomreel/roomreel/internal/common"
	"github.com/roomreel/roomreel/internal/dbx"
	"github.com/roomreel/roomreel/internal/server/models"
)

// PostgresRepository implements video storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Tags are stored as jsonb; database/sql has no native text[] support with
// the pgx stdlib driver.
func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func (r *PostgresRepository) Create(ctx context.Context, roomName string, v *models.Video) error {
	query := `
		INSERT INTO videos (
			id, room_id, title, description, tags, category_id, privacy_status,
			is_approved, sent_for_approval,
			video_s3_key, video_file_size, video_file_name, video_type,
			thumbnail_s3_key, thumbnail_size, thumbnail_type, updated_at
		)
		VALUES (
			$1, (SELECT id FROM rooms WHERE name = $2), $3, $4, $5, $6,
			COALESCE(NULLIF($7, ''), 'PRIVATE'),
			$8, $9, $10, $11, $12, $13, $14, $15, $16, now()
		);
	`

	tags, err := marshalTags(v.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query,
		v.ID, roomName, v.Title, v.Description, tags, v.CategoryID, string(v.PrivacyStatus),
		v.IsApproved, v.SentForApproval,
		v.VideoS3Key, v.VideoFileSize, v.VideoFileName, v.VideoType,
		v.ThumbnailS3Key, v.ThumbnailSize, v.ThumbnailType)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// Update builds the SET list from the patch so untouched asset groups keep
// their stored values, and applies it in a single statement. Exactly one row
// must be affected.
func (r *PostgresRepository) Update(ctx context.Context, id string, p *models.VideoPatch) error {
	tags, err := marshalTags(p.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	sets := []string{
		"title = $1",
		"description = $2",
		"tags = $3",
		"category_id = $4",
		"is_approved = $5",
		"sent_for_approval = $6",
		"updated_at = now()",
	}
	args := []any{p.Title, p.Description, tags, p.CategoryID, p.IsApproved, p.SentForApproval}

	next := func() int { return len(args) + 1 }

	if p.PrivacyStatus != nil {
		sets = append(sets, fmt.Sprintf("privacy_status = $%d", next()))
		args = append(args, string(*p.PrivacyStatus))
	}
	if p.Video != nil {
		sets = append(sets,
			fmt.Sprintf("video_s3_key = $%d", next()),
			fmt.Sprintf("video_file_size = $%d", next()+1),
			fmt.Sprintf("video_file_name = $%d", next()+2),
			fmt.Sprintf("video_type = $%d", next()+3),
		)
		args = append(args, p.Video.S3Key, p.Video.FileSize, p.Video.FileName, p.Video.Type)
	}
	if p.Thumbnail != nil {
		sets = append(sets,
			fmt.Sprintf("thumbnail_s3_key = $%d", next()),
			fmt.Sprintf("thumbnail_size = $%d", next()+1),
			fmt.Sprintf("thumbnail_type = $%d", next()+2),
		)
		args = append(args, p.Thumbnail.S3Key, p.Thumbnail.Size, p.Thumbnail.Type)
	}

	query := fmt.Sprintf("UPDATE videos SET %s WHERE id = $%d", strings.Join(sets, ", "), next())
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) CountEditable(ctx context.Context, roomName, id string) (int, error) {
	query := `
		SELECT count(*) FROM videos v
		JOIN rooms r ON r.id = v.room_id
		WHERE v.id = $1 AND r.name = $2 AND v.is_editable AND NOT v.is_published
	`

	var n int
	if err := r.db.QueryRowContext(ctx, query, id, roomName).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count editable videos: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) AssetKeys(ctx context.Context, id string) (string, string, error) {
	query := `SELECT video_s3_key, thumbnail_s3_key FROM videos WHERE id = $1`

	var videoKey, thumbnailKey string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&videoKey, &thumbnailKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", common.ErrorNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to select asset keys: %w", err)
	}
	return videoKey, thumbnailKey, nil
}

func (r *PostgresRepository) ClearApprovals(ctx context.Context, id string) error {
	query := `DELETE FROM video_approvals WHERE video_id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to clear approvals: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListUnpublished(ctx context.Context, roomName, viewerEmail string) ([]*models.UnpublishedVideo, error) {
	query := `
		SELECT v.id, v.title, v.description, v.tags, v.category_id, v.thumbnail_s3_key,
			v.privacy_status, v.is_editable, v.is_approved,
			v.video_file_name, v.video_file_size, v.video_type, v.sent_for_approval,
			EXISTS (
				SELECT 1 FROM video_approvals va
				JOIN users u ON u.id = va.user_id
				WHERE va.video_id = v.id AND u.email = $2
			) AS approved_by_me
		FROM videos v
		JOIN rooms r ON r.id = v.room_id
		WHERE r.name = $1 AND NOT v.is_published
		ORDER BY v.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, roomName, viewerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to select unpublished videos: %w", err)
	}
	defer rows.Close()

	var result []*models.UnpublishedVideo
	for rows.Next() {
		var item models.UnpublishedVideo
		var tags []byte
		var privacy string
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &tags, &item.CategoryID,
			&item.ThumbnailS3Key, &privacy, &item.IsEditable, &item.IsApproved,
			&item.VideoFileName, &item.VideoFileSize, &item.VideoType, &item.SentForApproval,
			&item.ApprovedByMe); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		item.PrivacyStatus = models.PrivacyStatus(privacy)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
