package enums

import "fmt"

// TreatmentCategory classifies what kind of stock an inventory item holds.
type TreatmentCategory string

const (
	TreatmentCategoryMedication   TreatmentCategory = "medication"
	TreatmentCategoryVaccine      TreatmentCategory = "vaccine"
	TreatmentCategoryBloodProduct TreatmentCategory = "blood_product"
	TreatmentCategoryEquipment    TreatmentCategory = "equipment"
)

var validTreatmentCategories = []TreatmentCategory{
	TreatmentCategoryMedication,
	TreatmentCategoryVaccine,
	TreatmentCategoryBloodProduct,
	TreatmentCategoryEquipment,
}

// String implements fmt.Stringer.
func (c TreatmentCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known TreatmentCategory.
func (c TreatmentCategory) IsValid() bool {
	for _, candidate := range validTreatmentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseTreatmentCategory converts raw input into a TreatmentCategory.
func ParseTreatmentCategory(value string) (TreatmentCategory, error) {
	for _, candidate := range validTreatmentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid treatment category %q", value)
}
