package services

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/patinhas/internal/models"
)

type CatalogService struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *slog.Logger
}

// NewCatalogService serves the fixed catalog. cld may be nil, in which case
// services are listed without illustrations.
func NewCatalogService(cld *cloudinary.Cloudinary, folder string, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{cld: cld, folder: folder, logger: logger}
}

func (cs *CatalogService) ListServices() []models.Service {
	services := make([]models.Service, len(models.Catalog))
	copy(services, models.Catalog)

	if cs.cld == nil {
		return services
	}

	for i := range services {
		url, err := cs.imageURL(services[i].ID)
		if err != nil {
			cs.logger.Warn("Failed to build service image url", "service_id", services[i].ID, "error", err)
			continue
		}
		services[i].ImageURL = url
	}
	return services
}

func (cs *CatalogService) imageURL(serviceID string) (string, error) {
	publicID := serviceID
	if cs.folder != "" {
		publicID = cs.folder + "/" + serviceID
	}
	img, err := cs.cld.Image(publicID)
	if err != nil {
		return "", err
	}
	return img.String()
}

type BookingOptions struct {
	TimeSlots []string `json:"timeSlots"`
	PetSizes  []string `json:"petSizes"`
}

func (cs *CatalogService) Options() BookingOptions {
	return BookingOptions{
		TimeSlots: models.TimeSlots,
		PetSizes:  models.PetSizes,
	}
}
