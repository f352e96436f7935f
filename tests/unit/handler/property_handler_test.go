package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propfolio/internal/domain"
	"propfolio/internal/handler"
	"propfolio/mocks"
)

func createPropertyBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"name": "123 Main St",
		"fields": map[string]any{
			"purchase_price": map[string]any{"value": 425000.0, "confidence": 0.92, "source": "deed.pdf"},
		},
		"form_mapping": map[string]any{"purchase_price": 425000.0},
		"document_ids": []string{"doc-1"},
	})
	return body
}

func TestPropertyHandler_Create_Success(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	record := &domain.PropertyRecord{ID: uuid.New(), Name: "123 Main St"}
	mockProperty.On("Create", mock.Anything, mock.Anything).Return(record, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/properties", bytes.NewReader(createPropertyBody()))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestPropertyHandler_Create_InvalidBody(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/properties", bytes.NewReader([]byte(`{"name": ""}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockProperty.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPropertyHandler_Create_MappingDrift(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	mockProperty.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidConsolidatedData)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/properties", bytes.NewReader(createPropertyBody()))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONSOLIDATED_DATA", resp.Error.Code)
}

func updatePropertyBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"name": "123 Main St (corrected)",
		"fields": map[string]any{
			"purchase_price": map[string]any{"value": 430000.0, "confidence": 1.0, "source": "manual review"},
		},
		"form_mapping": map[string]any{"purchase_price": 430000.0},
	})
	return body
}

func TestPropertyHandler_Update_Success(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	id := uuid.New()
	record := &domain.PropertyRecord{ID: id, Name: "123 Main St (corrected)"}
	mockProperty.On("Update", mock.Anything, id, mock.Anything).Return(record, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/v1/properties/"+id.String(), bytes.NewReader(updatePropertyBody()))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestPropertyHandler_Update_NotFound(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	id := uuid.New()
	mockProperty.On("Update", mock.Anything, id, mock.Anything).Return(nil, domain.ErrPropertyNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/v1/properties/"+id.String(), bytes.NewReader(updatePropertyBody()))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPropertyHandler_Update_InvalidBody(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	id := uuid.New()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/v1/properties/"+id.String(), bytes.NewReader([]byte(`{"name": ""}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockProperty.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestPropertyHandler_GetByID_NotFound(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	id := uuid.New()
	mockProperty.On("GetByID", mock.Anything, id).Return(nil, domain.ErrPropertyNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/properties/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPropertyHandler_GetByID_InvalidID(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/properties/not-a-uuid", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockProperty.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestPropertyHandler_List_Pagination(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	mockProperty.On("List", mock.Anything, 10, 5).Return([]domain.PropertyRecord{}, 42, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/properties?offset=10&limit=5", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 42, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Offset)
	assert.Equal(t, 5, resp.Meta.Limit)
}

func TestPropertyHandler_ExportXLSX(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	id := uuid.New()
	mockProperty.On("ExportXLSX", mock.Anything, id).Return([]byte("workbook-bytes"), "property-"+id.String()+".xlsx", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/properties/"+id.String()+"/export", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.ExportXLSX(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, "workbook-bytes", w.Body.String())
}

func TestPropertyHandler_Delete(t *testing.T) {
	mockProperty := new(mocks.MockPropertyService)
	h := handler.NewPropertyHandler(mockProperty)

	id := uuid.New()
	mockProperty.On("Delete", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/properties/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockProperty.AssertExpectations(t)
}
