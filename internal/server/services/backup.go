package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/dbx"
	"github.com/sprayworks/foamdesk/internal/logging"
	sc "github.com/sprayworks/foamdesk/internal/server/config"
	"github.com/sprayworks/foamdesk/internal/server/models"
	"github.com/sprayworks/foamdesk/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// BackupService composes the entity services into whole-account snapshot,
// restore and wipe operations. Import and export issue one store call per
// record with no batching; Clear runs its three deletes in one transaction.
type BackupService struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	resolver  *AccountService
	customers *CustomerService
	estimates *EstimateService
	inventory *InventoryService
	settings  *SettingsService
	config    *sc.Config
	logger    logging.Logger
}

// NewBackupService constructs a BackupService over the entity services.
func NewBackupService(db *sql.DB, rm repomanager.RepositoryManager, resolver *AccountService,
	cust *CustomerService, est *EstimateService, inv *InventoryService, set *SettingsService,
	cfg *sc.Config, logger logging.Logger) *BackupService {
	return &BackupService{
		db: db, rm: rm, resolver: resolver,
		customers: cust, estimates: est, inventory: inv, settings: set,
		config: cfg, logger: logger,
	}
}

// Export gathers the full account state concurrently and returns one
// timestamped snapshot. It fails outright when the account cannot be
// resolved; individual reads keep their fail-soft behavior.
func (s *BackupService) Export(ctx context.Context) (*models.Snapshot, error) {
	if _, err := s.resolver.ActiveAccountID(ctx); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	snapshot := &models.Snapshot{Timestamp: time.Now().UTC()}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		snapshot.Customers = s.customers.List(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.Estimates = s.estimates.List(ctx)
	}()
	go func() {
		defer wg.Done()
		snapshot.Inventory = s.inventory.List(ctx)
	}()
	go func() {
		defer wg.Done()
		loaded := s.settings.Load(ctx)
		snapshot.Settings = &loaded
	}()
	wg.Wait()

	return snapshot, nil
}

// rawSnapshot keeps array elements undecoded so one malformed record does
// not poison the records before it.
type rawSnapshot struct {
	Customers []json.RawMessage `json:"customers"`
	Estimates []json.RawMessage `json:"estimates"`
	Inventory []json.RawMessage `json:"inventory"`
	Settings  *models.Settings  `json:"settings"`
}

// Import restores a snapshot document. The parse happens strictly before
// any write; a malformed document means zero writes and ErrSnapshotParse.
// Records then apply sequentially, one upsert each, stopping at the first
// failure: earlier records stay committed, later ones are never attempted,
// and the whole operation reports failure.
func (s *BackupService) Import(ctx context.Context, raw []byte) error {
	var doc rawSnapshot
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Error(ctx, "import failed: snapshot does not parse", "error", err)
		return common.ErrSnapshotParse
	}

	for i, rec := range doc.Customers {
		var c models.Customer
		if err := json.Unmarshal(rec, &c); err != nil {
			return fmt.Errorf("%w: customers[%d]: %v", common.ErrPartialImport, i, err)
		}
		if err := s.customers.Save(ctx, &c); err != nil {
			return fmt.Errorf("%w: customers[%d]: %v", common.ErrPartialImport, i, err)
		}
	}
	for i, rec := range doc.Estimates {
		var e models.Estimate
		if err := json.Unmarshal(rec, &e); err != nil {
			return fmt.Errorf("%w: estimates[%d]: %v", common.ErrPartialImport, i, err)
		}
		if err := s.estimates.Save(ctx, &e); err != nil {
			return fmt.Errorf("%w: estimates[%d]: %v", common.ErrPartialImport, i, err)
		}
	}
	for i, rec := range doc.Inventory {
		var item models.InventoryItem
		if err := json.Unmarshal(rec, &item); err != nil {
			return fmt.Errorf("%w: inventory[%d]: %v", common.ErrPartialImport, i, err)
		}
		if err := s.inventory.Save(ctx, &item); err != nil {
			return fmt.Errorf("%w: inventory[%d]: %v", common.ErrPartialImport, i, err)
		}
	}
	if doc.Settings != nil {
		if err := s.settings.Save(ctx, *doc.Settings); err != nil {
			return fmt.Errorf("%w: settings: %v", common.ErrPartialImport, err)
		}
	}
	return nil
}

// Clear wipes all customers, estimates and inventory for the active
// account, in that fixed order, leaving the account row and settings
// untouched. Not reversible; callers own any confirmation or backup.
func (s *BackupService) Clear(ctx context.Context) error {
	accountID, err := s.resolver.ActiveAccountID(ctx)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Customers(tx).DeleteByAccount(ctx, accountID); err != nil {
			return err
		}
		if err := s.rm.Estimates(tx).DeleteByAccount(ctx, accountID); err != nil {
			return err
		}
		return s.rm.Inventory(tx).DeleteByAccount(ctx, accountID)
	})
}

// UploadSnapshot stores a serialized snapshot in the configured S3 bucket
// and returns a presigned download URL. Returns ErrExportDisabled when no
// bucket is configured.
func (s *BackupService) UploadSnapshot(ctx context.Context, snapshot *models.Snapshot) (string, error) {
	if s.config.S3Bucket == "" {
		return "", common.ErrExportDisabled
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	client, err := s.getS3Client()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := "backups/" + snapshot.FileName()

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presign snapshot: %w", err)
	}
	return req.URL, nil
}

func (s *BackupService) getS3Client() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}
