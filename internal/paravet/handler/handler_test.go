package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"zoopito/internal/paravet/handler/mocks"
	"zoopito/internal/paravet/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	liststrings "zoopito/pkg/platform/strings"
	"zoopito/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/paravet-mocks.go -package=mocks Service
type ParavetHandlerSuite struct {
	suite.Suite
	svc      *mocks.MockService
	router   chi.Router
	readOnly chi.Router
}

func TestParavetHandlerSuite(t *testing.T) {
	suite.Run(t, new(ParavetHandlerSuite))
}

func (s *ParavetHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.svc = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.svc, logger)
	s.router = chi.NewRouter()
	h.Register(s.router)
	s.readOnly = chi.NewRouter()
	h.RegisterReadOnly(s.readOnly)
}

func (s *ParavetHandlerSuite) TestCreateAcceptsCommaSeparatedAreas() {
	paravetID := id.NewParavetID()
	s.svc.EXPECT().Create(gomock.Any(), models.CreateParavetRequest{
		Name:          "Dr. Patil",
		Email:         "patil@example.com",
		Qualification: "B.V.Sc",
		AssignedAreas: liststrings.List{"Wai", "Satara"},
	}).Return(&models.CreatedParavet{
		Detail: &models.Detail{
			Paravet: &models.Paravet{ID: paravetID, Qualification: "B.V.Sc", AssignedAreas: []string{"Wai", "Satara"}},
			Name:    "Dr. Patil",
		},
		TempPassword: "temp",
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/paravets", map[string]any{
		"name":           "Dr. Patil",
		"email":          "patil@example.com",
		"qualification":  "B.V.Sc",
		"assigned_areas": "Wai, Satara, Wai",
	}))

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	testutil.AssertJSONContains(s.T(), rr, "id", paravetID.String())
	testutil.AssertJSONContains(s.T(), rr, "name", "Dr. Patil")
}

func (s *ParavetHandlerSuite) TestCreateDuplicateLicense() {
	s.svc.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "License number already exists"))

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/paravets", map[string]any{
		"email": "x@example.com", "qualification": "B.V.Sc", "license_number": "L-1",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *ParavetHandlerSuite) TestList() {
	s.svc.EXPECT().List(gomock.Any(), models.ListFilter{Area: "Wai", ActiveOnly: true}, 0, 20).
		Return([]*models.Detail{}, 0, nil)

	rr := testutil.DoRequest(s.readOnly, testutil.NewRequest(s.T(), http.MethodGet, "/paravets?area=Wai&active=true"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "total", float64(0))
}

func (s *ParavetHandlerSuite) TestReadOnlyHasNoMutations() {
	rr := testutil.DoRequest(s.readOnly, testutil.NewJSONRequest(s.T(), http.MethodPost, "/paravets", map[string]any{}))
	s.Equal(http.StatusMethodNotAllowed, rr.Code)
}

func (s *ParavetHandlerSuite) TestDeactivate() {
	paravetID := id.NewParavetID()
	s.svc.EXPECT().SetActive(gomock.Any(), paravetID, false).
		Return(&models.Detail{Paravet: &models.Paravet{ID: paravetID, IsActive: false}}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPatch, "/paravets/"+paravetID.String()+"/deactivate"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "is_active", false)
}

func (s *ParavetHandlerSuite) TestViewNotFound() {
	paravetID := id.NewParavetID()
	s.svc.EXPECT().View(gomock.Any(), paravetID).Return(nil, dErrors.New(dErrors.CodeNotFound, "Paravet not found"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/paravets/"+paravetID.String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *ParavetHandlerSuite) TestDelete() {
	paravetID := id.NewParavetID()
	s.svc.EXPECT().Delete(gomock.Any(), paravetID).Return(nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/paravets/"+paravetID.String()))
	s.Equal(http.StatusNoContent, rr.Code)
}
