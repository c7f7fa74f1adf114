package models

// Service is an entry of the grooming catalog.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Duration    string  `json:"duration"`
	Popular     bool    `json:"popular"`
	ImageURL    string  `json:"image_url,omitempty"`
}

var Catalog = []Service{
	{
		ID:          "basic-bath",
		Name:        "Banho Básico",
		Description: "Banho completo com shampoo neutro, secagem e escovação",
		Price:       45,
		Duration:    "45 min",
	},
	{
		ID:          "premium-bath",
		Name:        "Banho Premium",
		Description: "Banho com produtos premium, hidratação e perfume especial",
		Price:       75,
		Duration:    "60 min",
		Popular:     true,
	},
	{
		ID:          "haircut",
		Name:        "Tosa",
		Description: "Tosa higiênica ou completa conforme a raça do seu pet",
		Price:       65,
		Duration:    "75 min",
	},
	{
		ID:          "complete",
		Name:        "Pacote Completo",
		Description: "Banho premium, tosa, corte de unhas e limpeza de ouvidos",
		Price:       120,
		Duration:    "120 min",
		Popular:     true,
	},
	{
		ID:          "spa",
		Name:        "Spa Relaxante",
		Description: "Banho de ofurô, massagem, hidratação profunda e aromaterapia",
		Price:       150,
		Duration:    "150 min",
	},
	{
		ID:          "express",
		Name:        "Express",
		Description: "Banho rápido para quem tem pressa, ideal para manutenção",
		Price:       35,
		Duration:    "30 min",
	},
}

var TimeSlots = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

var PetSizes = []string{
	"Pequeno (até 10kg)",
	"Médio (10-25kg)",
	"Grande (25kg+)",
}

func FindService(id string) (Service, bool) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

func IsTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}
