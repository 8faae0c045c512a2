package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/internal/handler"
	"github.com/segyhp/fee-ledger/internal/mocks"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
)

func TestSettingsHandler(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		mockSettings := &mocks.MockSettingsService{}
		mockSettings.On("Get", mock.Anything, parent).Return(domain.DefaultSchoolSettings(), nil)
		h := handler.NewSettingsHandler(mockSettings)

		w := httptest.NewRecorder()
		h.GetSettings(w, newRequest(t, http.MethodGet, "/api/v1/settings", nil, nil, parent))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"school_name":"My School"`)
	})

	t.Run("update", func(t *testing.T) {
		mockSettings := &mocks.MockSettingsService{}
		mockSettings.On("Update", mock.Anything, admin, mock.MatchedBy(func(s *domain.SchoolSettings) bool {
			return s.SchoolName == "Hill View" && s.CurrentSession == "2026-2027"
		})).Return(&domain.SchoolSettings{SchoolName: "Hill View"}, nil)
		h := handler.NewSettingsHandler(mockSettings)

		w := httptest.NewRecorder()
		h.UpdateSettings(w, newRequest(t, http.MethodPut, "/api/v1/settings",
			`{"school_name":"Hill View","school_address":"4 Ridge Road","current_session":"2026-2027"}`, nil, admin))

		assert.Equal(t, http.StatusOK, w.Code)
		mockSettings.AssertExpectations(t)
	})

	t.Run("update validation", func(t *testing.T) {
		mockSettings := &mocks.MockSettingsService{}
		mockSettings.On("Update", mock.Anything, admin, mock.Anything).
			Return(nil, customError.WrapValidation("school_name is required"))
		h := handler.NewSettingsHandler(mockSettings)

		w := httptest.NewRecorder()
		h.UpdateSettings(w, newRequest(t, http.MethodPut, "/api/v1/settings", `{}`, nil, admin))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, customError.ErrCodeValidation, decodeEnvelope(t, w).Code)
	})
}
