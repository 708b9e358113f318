package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"zoopito/internal/vaccine/handler/mocks"
	"zoopito/internal/vaccine/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/platform/httputil"
	"zoopito/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/vaccine-mocks.go -package=mocks Service
type VaccineHandlerSuite struct {
	suite.Suite
	svc    *mocks.MockService
	router chi.Router
}

func TestVaccineHandlerSuite(t *testing.T) {
	suite.Run(t, new(VaccineHandlerSuite))
}

func (s *VaccineHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.svc = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	h := New(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.RegisterPublic(s.router)
	h.RegisterAdmin(s.router)
}

func (s *VaccineHandlerSuite) TestListDefaultsAndFilters() {
	active := true
	s.svc.EXPECT().List(gomock.Any(), models.ListFilter{Species: "Goat", IsActive: &active}, 0, 10).
		Return([]*models.Vaccine{{ID: id.NewVaccineID(), Name: "PPR Vaccine"}}, 1, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/vaccines?species=Goat&isActive=true"))

	testutil.AssertStatusOK(s.T(), rr)
	page := testutil.UnmarshalResponse[httputil.Paginated[models.Vaccine]](s.T(), rr)
	s.Equal(1, page.Total)
	s.Equal(10, page.Limit)
	s.Require().Len(page.Items, 1)
	s.Equal("PPR Vaccine", page.Items[0].Name)
}

func (s *VaccineHandlerSuite) TestListIgnoresUnknownActiveFlag() {
	s.svc.EXPECT().List(gomock.Any(), models.ListFilter{}, 0, 10).Return(nil, 0, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/vaccines?isActive=maybe"))
	testutil.AssertStatusOK(s.T(), rr)
}

func (s *VaccineHandlerSuite) TestDropdownRouteIsNotAnID() {
	s.svc.EXPECT().Dropdown(gomock.Any(), "Cattle").
		Return([]models.Option{{ID: id.NewVaccineID(), Name: "HS Vaccine"}}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/vaccines/dropdown?species=Cattle"))

	testutil.AssertStatusOK(s.T(), rr)
	body := *testutil.UnmarshalResponse[map[string][]models.Option](s.T(), rr)
	s.Require().Len(body["data"], 1)
	s.Equal("HS Vaccine", body["data"][0].Name)
}

func (s *VaccineHandlerSuite) TestGetInvalidID() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/vaccines/not-a-uuid"))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *VaccineHandlerSuite) TestGetNotFound() {
	vaccineID := id.NewVaccineID()
	s.svc.EXPECT().Get(gomock.Any(), vaccineID).Return(nil, dErrors.New(dErrors.CodeNotFound, "Vaccine not found"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/vaccines/"+vaccineID.String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *VaccineHandlerSuite) TestCreate() {
	vaccineID := id.NewVaccineID()
	s.svc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, in models.VaccineInput) (*models.Vaccine, error) {
			s.Equal("Raksha FMD", in.Name)
			s.Equal([]string{"Cattle", "Goat"}, in.TargetSpecies)
			s.Require().NotNil(in.RequiresRefrigeration)
			s.False(*in.RequiresRefrigeration)
			return &models.Vaccine{ID: vaccineID, Name: in.Name, IsActive: true}, nil
		})

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/vaccines", map[string]any{
		"name":                   "Raksha FMD",
		"target_species":         []string{"Cattle", "Goat"},
		"requires_refrigeration": false,
	})
	rr := testutil.DoRequest(s.router, testutil.AsAdmin(req))

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	testutil.AssertJSONContains(s.T(), rr, "name", "Raksha FMD")
}

func (s *VaccineHandlerSuite) TestToggle() {
	vaccineID := id.NewVaccineID()
	s.svc.EXPECT().ToggleActive(gomock.Any(), vaccineID).
		Return(&models.ToggleResult{IsActive: false, Message: "Vaccine deactivated successfully"}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPatch, "/vaccines/"+vaccineID.String()+"/toggle-active"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "message", "Vaccine deactivated successfully")
}

func (s *VaccineHandlerSuite) TestDelete() {
	vaccineID := id.NewVaccineID()

	s.Run("in use", func() {
		s.svc.EXPECT().Delete(gomock.Any(), vaccineID).
			Return(dErrors.New(dErrors.CodeConflict, "Cannot delete vaccine. It has been used in 2 vaccination records."))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/vaccines/"+vaccineID.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("removed", func() {
		s.svc.EXPECT().Delete(gomock.Any(), vaccineID).Return(nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/vaccines/"+vaccineID.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	})
}
