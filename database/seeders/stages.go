package seeders

import (
	"log"

	"trail-pass/models/badge"
	"trail-pass/models/stage"

	"gorm.io/gorm"
)

func SeedStages(db *gorm.DB) {
	log.Printf("🔍 Checking stage data integrity...")

	stages := []stage.Stage{
		{Number: 1, OpenTime: "06:00:00", CloseTime: "18:00:00", DistanceKm: 14.8, Elevation: 540, Difficulty: "moderate"},
		{Number: 2, OpenTime: "06:00:00", CloseTime: "18:00:00", DistanceKm: 9.2, Elevation: 310, Difficulty: "easy"},
		{Number: 3, OpenTime: "07:00:00", CloseTime: "17:00:00", DistanceKm: 17.5, Elevation: 820, Difficulty: "hard"},
		{Number: 4, OpenTime: "06:30:00", CloseTime: "17:30:00", DistanceKm: 12.1, Elevation: 430, Difficulty: "moderate"},
		{Number: 5, OpenTime: "07:00:00", CloseTime: "16:30:00", DistanceKm: 21.4, Elevation: 1100, Difficulty: "hard"},
	}

	translations := map[int][]stage.StageTranslation{
		1: {{Locale: "en", Name: "Coastal Ridge", Description: "Cliff-top walk above the northern shore."}},
		2: {{Locale: "en", Name: "Pine Valley", Description: "Shaded valley path through old pine forest."}},
		3: {{Locale: "en", Name: "Summit Traverse", Description: "Exposed ridge crossing with the highest climb of the trail."}},
		4: {{Locale: "en", Name: "River Crossing", Description: "Rolling terrain along the river with two suspension bridges."}},
		5: {{Locale: "en", Name: "High Plateau", Description: "Long alpine stretch across the open plateau."}},
	}

	for _, st := range stages {
		var existing stage.Stage
		err := db.Where("number = ?", st.Number).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Printf("⚠️ Failed to check stage %d: %v", st.Number, err)
			continue
		}

		if err := db.Create(&st).Error; err != nil {
			log.Printf("⚠️ Failed to seed stage %d: %v", st.Number, err)
			continue
		}

		for _, tr := range translations[st.Number] {
			tr.StageID = st.ID
			if err := db.Create(&tr).Error; err != nil {
				log.Printf("⚠️ Failed to seed translation for stage %d: %v", st.Number, err)
			}
		}

		b := badge.Badge{
			StageID:     st.ID,
			Name:        "Stage " + translationName(translations[st.Number]) + " Finisher",
			Description: "Awarded for completing the full stage.",
		}
		if err := db.Create(&b).Error; err != nil {
			log.Printf("⚠️ Failed to seed badge for stage %d: %v", st.Number, err)
		}
	}

	log.Printf("✅ Stage seed data verified")
}

func translationName(trs []stage.StageTranslation) string {
	for _, tr := range trs {
		if tr.Locale == "en" {
			return tr.Name
		}
	}
	return ""
}
