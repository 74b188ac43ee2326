package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sprayworks/foamdesk/internal/common"
	"github.com/sprayworks/foamdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_GathersAllSections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.customers.Save(ctx, &models.Customer{ID: "c1", Name: "Jane"}))
	require.NoError(t, h.estimates.Save(ctx, &models.Estimate{ID: "e1", Number: "EST-001"}))
	cfgd := models.DefaultSettings()
	cfgd.CompanyName = "Acme Foam"
	require.NoError(t, h.settings.Save(ctx, cfgd))

	snapshot, err := h.backup.Export(ctx)
	require.NoError(t, err)

	assert.Len(t, snapshot.Customers, 1)
	assert.Len(t, snapshot.Estimates, 1)
	assert.Len(t, snapshot.Inventory, len(models.StarterCatalog()))
	require.NotNil(t, snapshot.Settings)
	assert.Equal(t, "Acme Foam", snapshot.Settings.CompanyName)
	assert.False(t, snapshot.Timestamp.IsZero())
}

func TestExport_FailsWithoutResolvableAccount(t *testing.T) {
	h := newHarness(t)
	h.rm.accounts.firstErr = errors.New("db error: connection refused")

	_, err := h.backup.Export(context.Background())
	require.Error(t, err)
}

func TestSnapshotFileName(t *testing.T) {
	s := models.Snapshot{Timestamp: time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)}
	assert.Equal(t, "spf_backup_2026-08-30.json", s.FileName())
}

func TestImport_ExportRoundTrip(t *testing.T) {
	src := newHarness(t)
	ctx := context.Background()

	require.NoError(t, src.customers.Save(ctx, &models.Customer{ID: "c1", Name: "Jane", Email: "jane@example.com"}))
	require.NoError(t, src.estimates.Save(ctx, &models.Estimate{
		ID: "e1", Number: "EST-001", Status: models.StatusInvoiced,
		CalcData: json.RawMessage(`{"walls":[]}`), Items: json.RawMessage(`[{"desc":"spray"}]`),
	}))
	saved := models.DefaultSettings()
	saved.TaxRate = 8.5
	require.NoError(t, src.settings.Save(ctx, saved))

	snapshot, err := src.backup.Export(ctx)
	require.NoError(t, err)
	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)

	dst := newHarness(t)
	require.NoError(t, dst.backup.Import(ctx, raw))

	customers := dst.customers.List(ctx)
	require.Len(t, customers, 1)
	assert.Equal(t, "jane@example.com", customers[0].Email)

	estimates := dst.estimates.List(ctx)
	require.Len(t, estimates, 1)
	assert.Equal(t, models.StatusInvoiced, estimates[0].Status)
	assert.JSONEq(t, `[{"desc":"spray"}]`, string(estimates[0].Items))

	assert.Equal(t, 8.5, dst.settings.Load(ctx).TaxRate)
}

func TestImport_MalformedDocumentWritesNothing(t *testing.T) {
	h := newHarness(t)

	err := h.backup.Import(context.Background(), []byte(`{"customers": [`))
	assert.ErrorIs(t, err, common.ErrSnapshotParse)
	assert.Empty(t, h.rm.accounts.rows)
	assert.Empty(t, h.rm.customers.byAccount)
	assert.Zero(t, h.rm.estimates.upserts)
	assert.Zero(t, h.rm.inventory.upserts)
	assert.Zero(t, h.rm.settings.puts)
}

func TestImport_StopsAtFirstFailingRecord(t *testing.T) {
	h := newHarness(t)
	h.rm.customers.failOnUpsertID = "c2"

	doc := `{
		"customers": [
			{"id": "c1", "name": "Jane"},
			{"id": "c2", "name": "Broken"},
			{"id": "c3", "name": "Never Reached"}
		],
		"estimates": [{"id": "e1", "number": "EST-001"}]
	}`
	err := h.backup.Import(context.Background(), []byte(doc))
	require.ErrorIs(t, err, common.ErrPartialImport)
	assert.Contains(t, err.Error(), "customers[1]")

	// The record before the failure stays committed; nothing after it runs.
	ctx := context.Background()
	customers := h.customers.List(ctx)
	require.Len(t, customers, 1)
	assert.Equal(t, "c1", customers[0].ID)
	assert.Zero(t, h.rm.estimates.upserts)
}

func TestImport_EmptyDocumentIsNoOp(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.backup.Import(context.Background(), []byte(`{}`)))
	assert.Empty(t, h.rm.customers.byAccount)
	assert.Zero(t, h.rm.settings.puts)
}

func TestClear_RunsInOneTransactionInFixedOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.customers.Save(ctx, &models.Customer{ID: "c1"}))
	require.NoError(t, h.estimates.Save(ctx, &models.Estimate{ID: "e1"}))
	require.NoError(t, h.inventory.Save(ctx, &models.InventoryItem{ID: "i1"}))
	saved := models.DefaultSettings()
	saved.CompanyName = "Keep Me"
	require.NoError(t, h.settings.Save(ctx, saved))

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	require.NoError(t, h.backup.Clear(ctx))

	assert.Empty(t, h.customers.List(ctx))
	assert.Empty(t, h.estimates.List(ctx))
	accountID, _ := h.account.ActiveAccountID(ctx)
	assert.Equal(t, []string{accountID}, h.rm.customers.deletedAll)
	assert.Equal(t, []string{accountID}, h.rm.estimates.deletedAll)
	assert.Equal(t, []string{accountID}, h.rm.inventory.deletedAll)

	// Settings and the account row survive.
	assert.Equal(t, "Keep Me", h.settings.Load(ctx).CompanyName)
	assert.Len(t, h.rm.accounts.rows, 1)

	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestClear_RollsBackOnFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.rm.estimates.deleteErr = errors.New("db error: deadlock detected")

	h.mock.ExpectBegin()
	h.mock.ExpectRollback()

	require.Error(t, h.backup.Clear(ctx))
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestUploadSnapshot_DisabledWithoutBucket(t *testing.T) {
	h := newHarness(t)
	h.cfg.S3Bucket = ""

	_, err := h.backup.UploadSnapshot(context.Background(), &models.Snapshot{})
	assert.ErrorIs(t, err, common.ErrExportDisabled)
}

func TestUploadSnapshot_PutsObjectAndPresignsURL(t *testing.T) {
	h := newHarness(t)
	h.cfg.S3Bucket = "foamdesk-backups"
	h.cfg.S3Region = "us-east-1"

	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	origPut := putObject
	origPresignClient := newS3PresignClient
	origPresign := presignGetObject
	defer func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
		putObject = origPut
		newS3PresignClient = origPresignClient
		presignGetObject = origPresign
	}()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}

	var putInput *s3.PutObjectInput
	var putBody []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		putInput = in
		var err error
		putBody, err = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, err
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{
			URL: "https://foamdesk-backups.s3.amazonaws.com/" + *in.Key + "?signed=1",
		}, nil
	}

	snapshot := &models.Snapshot{Timestamp: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)}
	url, err := h.backup.UploadSnapshot(context.Background(), snapshot)
	require.NoError(t, err)

	require.NotNil(t, putInput)
	assert.Equal(t, "foamdesk-backups", *putInput.Bucket)
	assert.Equal(t, "backups/spf_backup_2026-08-30.json", *putInput.Key)
	assert.Equal(t, "application/json", *putInput.ContentType)
	assert.True(t, json.Valid(putBody))

	assert.True(t, strings.Contains(url, "spf_backup_2026-08-30.json"))
	assert.True(t, strings.Contains(url, "signed=1"))
}

func TestUploadSnapshot_PutFailureSurfaces(t *testing.T) {
	h := newHarness(t)
	h.cfg.S3Bucket = "foamdesk-backups"

	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	origPut := putObject
	defer func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
		putObject = origPut
	}()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("AccessDenied")
	}

	_, err := h.backup.UploadSnapshot(context.Background(), &models.Snapshot{Timestamp: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload snapshot")
}
