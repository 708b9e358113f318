package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"zoopito/internal/farmer/handler/mocks"
	"zoopito/internal/farmer/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/platform/httputil"
	"zoopito/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/farmer-mocks.go -package=mocks Service
type FarmerHandlerSuite struct {
	suite.Suite
	svc    *mocks.MockService
	router chi.Router
}

func TestFarmerHandlerSuite(t *testing.T) {
	suite.Run(t, new(FarmerHandlerSuite))
}

func (s *FarmerHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.svc = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *FarmerHandlerSuite) TestCreate() {
	farmerID := id.NewFarmerID()
	s.svc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, req models.CreateFarmerRequest) (*models.CreatedFarmer, error) {
			s.Equal("Ramesh", req.Name)
			s.Equal("Wai", req.Address.Village)
			return &models.CreatedFarmer{
				Farmer:       &models.Farmer{ID: farmerID, Name: "Ramesh", UniqueFarmerID: "AB12CD", IsActive: true},
				TempPassword: "secret",
			}, nil
		})

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/farmers", map[string]any{
		"name":          "Ramesh",
		"mobile_number": "9876543210",
		"address":       map[string]any{"village": "Wai"},
	})
	rr := testutil.DoRequest(s.router, testutil.AsSales(req))

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	testutil.AssertJSONContains(s.T(), rr, "unique_farmer_id", "AB12CD")
	testutil.AssertJSONContains(s.T(), rr, "temp_password", "secret")
}

func (s *FarmerHandlerSuite) TestCreateConflict() {
	s.svc.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "Mobile number already registered"))

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/farmers", map[string]any{
		"name": "Ramesh", "mobile_number": "9876543210",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *FarmerHandlerSuite) TestListUsesPageSizeTwenty() {
	s.svc.EXPECT().List(gomock.Any(), models.ListFilter{Search: "wai"}, 40, 20).
		Return([]*models.Farmer{{ID: id.NewFarmerID(), Name: "Ramesh"}}, 41, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/farmers?page=3&search=wai"))

	testutil.AssertStatusOK(s.T(), rr)
	page := testutil.UnmarshalResponse[httputil.Paginated[models.Farmer]](s.T(), rr)
	s.Equal(41, page.Total)
	s.Equal(3, page.TotalPages)
}

func (s *FarmerHandlerSuite) TestViewInactiveIsNotFound() {
	farmerID := id.NewFarmerID()
	s.svc.EXPECT().View(gomock.Any(), farmerID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "Farmer not found or inactive"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/farmers/"+farmerID.String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *FarmerHandlerSuite) TestUpdate() {
	farmerID := id.NewFarmerID()
	s.svc.EXPECT().Update(gomock.Any(), farmerID, gomock.Any()).DoAndReturn(
		func(_ any, _ id.FarmerID, req models.UpdateFarmerRequest) (*models.Farmer, error) {
			s.Require().NotNil(req.Name)
			s.Nil(req.MobileNumber)
			return &models.Farmer{ID: farmerID, Name: *req.Name}, nil
		})

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/farmers/"+farmerID.String(),
		map[string]any{"name": "Renamed"}))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "name", "Renamed")
}

func (s *FarmerHandlerSuite) TestToggle() {
	farmerID := id.NewFarmerID()
	s.svc.EXPECT().ToggleStatus(gomock.Any(), farmerID).
		Return(&models.ToggleResult{IsActive: false, Message: "Farmer deactivated"}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPatch, "/farmers/"+farmerID.String()+"/toggle-status"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "message", "Farmer deactivated")
}

func (s *FarmerHandlerSuite) TestDelete() {
	farmerID := id.NewFarmerID()
	s.svc.EXPECT().Delete(gomock.Any(), farmerID).Return(nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/farmers/"+farmerID.String()))
	s.Equal(http.StatusNoContent, rr.Code)
}

func (s *FarmerHandlerSuite) TestInvalidID() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/farmers/xyz"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}
