package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	jsonMimeType   = "application/json"
)

var ErrMissingCredentials = errors.New("google drive credentials not set")

// GoogleDriveUploader stores snapshots as JSON files in one Drive folder,
// creating the folder on first use.
type GoogleDriveUploader struct {
	service   *drive.Service
	folderID  string
	shareWith string
}

func NewGoogleDriveUploader(ctx context.Context, credentialsJSON []byte, folderName, shareWith string) (*GoogleDriveUploader, error) {
	if len(credentialsJSON) == 0 {
		return nil, ErrMissingCredentials
	}
	return newGoogleDriveUploader(ctx, folderName, shareWith, option.WithCredentialsJSON(credentialsJSON))
}

func newGoogleDriveUploader(ctx context.Context, folderName, shareWith string, opts ...option.ClientOption) (*GoogleDriveUploader, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	u := &GoogleDriveUploader{
		service:   driveService,
		shareWith: shareWith,
	}

	folderQuery := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, folderName)
	folders, err := driveService.Files.List().
		Q(folderQuery).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve backup folders: %w", err)
	}

	switch len(folders.Files) {
	case 0:
		log.Printf("backups folder %s not found, creating", folderName)
		if u.folderID, err = u.createFolder(ctx, folderName); err != nil {
			return nil, fmt.Errorf("create backups folder: %w", err)
		}
	case 1:
		u.folderID = folders.Files[0].Id
	default:
		u.folderID = folders.Files[0].Id
		log.Warnf("found %d backups folders named %s, using %s", len(folders.Files), folderName, u.folderID)
	}

	log.Debugf("google drive backups folder: %s", u.folderID)
	return u, nil
}

func (u *GoogleDriveUploader) FolderID() string {
	return u.folderID
}

// Upload stores the snapshot as a new file and returns its Drive id.
func (u *GoogleDriveUploader) Upload(ctx context.Context, name string, snap *Snapshot) (_ string, err error) {
	ctx, span := tracing.GlobalBackupTracer.Start(ctx, "backup.gdrive.upload")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	snapBytes, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}

	fileMeta := &drive.File{
		Name:     name,
		MimeType: jsonMimeType,
		Parents:  []string{u.folderID},
	}
	created, err := u.service.Files.Create(fileMeta).
		Fields("id, parents").
		Media(bytes.NewReader(snapBytes)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%s: create backup file: %w", name, err)
	}

	log.Printf("backup %s uploaded: %s", name, created.Id)
	return created.Id, nil
}

// List returns the names of the backup files in the folder.
func (u *GoogleDriveUploader) List(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", u.folderID, folderMimeType)
	files, err := u.service.Files.List().
		Q(q).
		Fields("files(id, name, createdTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list backup files: %w", err)
	}

	names := make([]string, 0, len(files.Files))
	for _, f := range files.Files {
		names = append(names, f.Name)
	}
	return names, nil
}

func (u *GoogleDriveUploader) createFolder(ctx context.Context, folderName string) (string, error) {
	folder, err := u.service.Files.Create(&drive.File{
		Name:     folderName,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}

	if u.shareWith != "" {
		permission, err := u.service.Permissions.Create(folder.Id, &drive.Permission{
			EmailAddress: u.shareWith,
			Type:         "user",
			Role:         "reader",
		}).Context(ctx).Do()
		if err != nil {
			return folder.Id, fmt.Errorf("share backups folder with %s: %w", u.shareWith, err)
		}
		log.Printf("permission %s created for backups folder %s", permission.Id, folder.Id)
	}

	return folder.Id, nil
}
