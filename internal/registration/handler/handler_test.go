package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	animalmodels "zoopito/internal/animal/models"
	"zoopito/internal/registration/handler/mocks"
	"zoopito/internal/registration/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/registration-mocks.go -package=mocks Service
type RegistrationHandlerSuite struct {
	suite.Suite
	svc    *mocks.MockService
	router chi.Router
}

func TestRegistrationHandlerSuite(t *testing.T) {
	suite.Run(t, new(RegistrationHandlerSuite))
}

func (s *RegistrationHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.svc = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	h := New(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router.Route("/vaccinations", h.Register)
}

func (s *RegistrationHandlerSuite) TestDecodesEntries() {
	farmerID, vaccineID := id.NewFarmerID(), id.NewVaccineID()
	s.svc.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, req models.Request) (*models.Result, error) {
			s.Equal(farmerID, req.FarmerID)
			s.True(req.Atomic)
			s.Require().Len(req.Animals, 2)
			s.Equal(animalmodels.AnimalCow, req.Animals[0].AnimalType)
			s.Equal("t-1", req.Animals[0].TagNumber)
			s.Require().Len(req.Animals[0].Vaccinations, 1)
			s.Equal(vaccineID, req.Animals[0].Vaccinations[0].VaccineID)
			s.Empty(req.Animals[1].Vaccinations)
			return &models.Result{BatchID: "BATCH_1_abcdefghi", Created: make([]models.Created, 2), CreatedCount: 2}, nil
		})

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/vaccinations/bulk", map[string]any{
		"farmer_id": farmerID.String(),
		"atomic":    true,
		"animals": []map[string]any{
			{
				"animal_type":  "Cow",
				"gender":       "Female",
				"tag_number":   "t-1",
				"vaccinations": []map[string]any{{"vaccine_id": vaccineID.String()}},
			},
			{"animal_type": "Goat", "gender": "Male"},
		},
	})
	rr := testutil.DoRequest(s.router, testutil.AsSales(req))

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	result := testutil.UnmarshalResponse[models.Result](s.T(), rr)
	s.Equal("BATCH_1_abcdefghi", result.BatchID)
	s.Equal(2, result.CreatedCount)
	testutil.AssertJSONContains(s.T(), rr, "created_count", float64(2))
}

func (s *RegistrationHandlerSuite) TestNothingCreatedIsUnprocessable() {
	s.svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(&models.Result{
		BatchID:     "BATCH_1_abcdefghi",
		Errors:      []models.EntryError{{Index: 0, Field: "animal_type", Message: "invalid animal type"}},
		FailedCount: 1,
	}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/vaccinations/bulk", map[string]any{
		"animals": []map[string]any{{"animal_type": "Dragon"}},
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusUnprocessableEntity)
	result := testutil.UnmarshalResponse[models.Result](s.T(), rr)
	s.Equal(1, result.FailedCount)
	s.Require().Len(result.Errors, 1)
	s.Equal("animal_type", result.Errors[0].Field)
}

func (s *RegistrationHandlerSuite) TestEmptyBatchRejected() {
	s.svc.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeValidation, "At least one animal is required"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/vaccinations/bulk", map[string]any{"animals": []any{}})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *RegistrationHandlerSuite) TestMalformedBody() {
	req := testutil.NewRequest(s.T(), http.MethodPost, "/vaccinations/bulk")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}
