package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propfolio/internal/domain"
	"propfolio/internal/port"
	"propfolio/internal/service"
	"propfolio/mocks"
)

// createMultipartFile builds a real multipart file and header for testing.
func createMultipartFile(t *testing.T, filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	file, err := form.File["file"][0].Open()
	require.NoError(t, err)
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 test content that is at least a few bytes long for detection purposes")
}

func pngContent() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 100)...)
}

func TestFileService_Upload_Success(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	file, header := createMultipartFile(t, "deed.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x", ETag: "abc"}, nil)
	fileRepo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), domain.FileStatusUploaded).Return(nil)

	meta, err := svc.Upload(context.Background(), service.FileUploadInput{
		UploadedBy: "operator",
		File:       file,
		Header:     header,
	})
	require.NoError(t, err)

	assert.Equal(t, "deed.pdf", meta.OriginalName)
	assert.Equal(t, domain.FileTypePDF, meta.FileType)
	assert.Equal(t, domain.FileStatusUploaded, meta.Status)
	assert.Equal(t, "test-bucket", meta.S3Bucket)
	assert.Contains(t, meta.S3Key, "documents/")
}

func TestFileService_Upload_PNG(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	file, header := createMultipartFile(t, "photo.png", pngContent(), "image/png")
	defer file.Close()

	fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	fileRepo.On("UpdateStatus", mock.Anything, mock.Anything, domain.FileStatusUploaded).Return(nil)

	meta, err := svc.Upload(context.Background(), service.FileUploadInput{
		UploadedBy: "operator",
		File:       file,
		Header:     header,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FileTypePNG, meta.FileType)
}

func TestFileService_Upload_UnsupportedExtension(t *testing.T) {
	svc := service.NewFileService(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), testS3Config())

	file, header := createMultipartFile(t, "macro.docx", []byte("not allowed"), "application/octet-stream")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.FileUploadInput{
		UploadedBy: "operator",
		File:       file,
		Header:     header,
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

// Extension says PDF, content says otherwise: rejected on magic bytes.
func TestFileService_Upload_ContentMismatch(t *testing.T) {
	svc := service.NewFileService(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), testS3Config())

	file, header := createMultipartFile(t, "fake.pdf", []byte("<html><body>not a pdf</body></html>"), "application/pdf")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.FileUploadInput{
		UploadedBy: "operator",
		File:       file,
		Header:     header,
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFileService_Upload_StorageFailureMarksFailed(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	file, header := createMultipartFile(t, "deed.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 unavailable"))
	fileRepo.On("UpdateStatus", mock.Anything, mock.Anything, domain.FileStatusFailed).Return(nil)

	_, err := svc.Upload(context.Background(), service.FileUploadInput{
		UploadedBy: "operator",
		File:       file,
		Header:     header,
	})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	fileRepo.AssertCalled(t, "UpdateStatus", mock.Anything, mock.Anything, domain.FileStatusFailed)
}

func TestFileService_GetDownloadURL(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, cfg)

	fileID := uuid.New()
	fileRepo.On("GetByID", mock.Anything, fileID).Return(&domain.FileMeta{
		ID:       fileID,
		S3Bucket: "test-bucket",
		S3Key:    "documents/abc/deed.pdf",
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "documents/abc/deed.pdf", cfg.PresignExpiry).
		Return("https://signed.example.com/deed.pdf", nil)

	url, err := svc.GetDownloadURL(context.Background(), fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/deed.pdf", url)
}

func TestFileService_Delete_KeepsTombstone(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	fileID := uuid.New()
	fileRepo.On("GetByID", mock.Anything, fileID).Return(&domain.FileMeta{
		ID:       fileID,
		S3Bucket: "test-bucket",
		S3Key:    "documents/abc/deed.pdf",
	}, nil)
	storage.On("Delete", mock.Anything, "test-bucket", "documents/abc/deed.pdf").Return(nil)
	fileRepo.On("UpdateStatus", mock.Anything, fileID, domain.FileStatusDeleted).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), fileID))
	fileRepo.AssertCalled(t, "UpdateStatus", mock.Anything, fileID, domain.FileStatusDeleted)
	fileRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFileService_Purge_RemovesRow(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	fileID := uuid.New()
	fileRepo.On("GetByID", mock.Anything, fileID).Return(&domain.FileMeta{
		ID:       fileID,
		S3Bucket: "test-bucket",
		S3Key:    "documents/abc/deed.pdf",
	}, nil)
	storage.On("Delete", mock.Anything, "test-bucket", "documents/abc/deed.pdf").Return(nil)
	fileRepo.On("Delete", mock.Anything, fileID).Return(nil)

	require.NoError(t, svc.Purge(context.Background(), fileID))
	fileRepo.AssertCalled(t, "Delete", mock.Anything, fileID)
	fileRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestFileService_Purge_StorageFailureKeepsRow(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	fileID := uuid.New()
	fileRepo.On("GetByID", mock.Anything, fileID).Return(&domain.FileMeta{
		ID:       fileID,
		S3Bucket: "test-bucket",
		S3Key:    "documents/abc/deed.pdf",
	}, nil)
	storage.On("Delete", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("s3 outage"))

	require.Error(t, svc.Purge(context.Background(), fileID))
	fileRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFileService_GetDownloadURL_NotFound(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	svc := service.NewFileService(fileRepo, new(mocks.MockObjectStorage), testS3Config())

	fileID := uuid.New()
	fileRepo.On("GetByID", mock.Anything, fileID).Return(nil, domain.ErrNotFound)

	_, err := svc.GetDownloadURL(context.Background(), fileID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
