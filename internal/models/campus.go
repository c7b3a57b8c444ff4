package models

// Campus is a physical campus with its own discount and preparation fees.
type Campus struct {
	ID                 string            `json:"id"`
	Code               string            `json:"code"`
	Name               string            `json:"name"`
	City               string            `json:"city"`
	Address            string            `json:"address"`
	Phone              string            `json:"phone"`
	Email              string            `json:"email"`
	DiscountPercentage float64           `json:"discount_percentage"`
	PreparationFees    PreparationFees   `json:"preparation_fees"`
	AvailablePrograms  AvailablePrograms `json:"available_programs"`
	IsActive           *bool             `json:"is_active,omitempty"`
}

// PreparationFees lists the orientation and English preparation fees for a year.
type PreparationFees struct {
	Year        int            `json:"year"`
	Orientation PreparationFee `json:"orientation"`
	EnglishPrep PreparationFee `json:"english_prep"`
}

// PreparationFee is one preparation course fee.
type PreparationFee struct {
	Fee         float64 `json:"fee"`
	IsMandatory bool    `json:"is_mandatory"`
	MaxPeriods  int     `json:"max_periods"`
	Description string  `json:"description"`
}

// AvailablePrograms summarises which programs a campus offers.
type AvailablePrograms struct {
	Count int      `json:"count"`
	Codes []string `json:"codes"`
}
