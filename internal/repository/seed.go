package repository

import (
	"time"

	"github.com/ranganmag-api/internal/models"
)

// Seed returns the repository written the first time storage is initialized
func Seed(now time.Time) *models.Repository {
	return &models.Repository{
		Articles: []models.Article{
			{
				ID:          1,
				Title:       "স্বাধীনতার ৫৩ বছর",
				Subtitle:    "বাংলাদেশের অগ্রযাত্রা",
				Description: "বাংলাদেশের স্বাধীনতার ৫৩ বছর পূর্ণ হয়েছে। এই দীর্ঘ সময়ে দেশ অনেক উন্নতি করেছে।",
				Author:      "সম্পাদকীয় বিভাগ",
				Date:        "2024-03-26",
				Category:    "সম্পাদকীয়",
				Featured:    true,
				Status:      models.StatusPublished,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			{
				ID:          2,
				Title:       "অর্থনৈতিক উন্নয়ন",
				Subtitle:    "নতুন দিগন্তের সন্ধানে",
				Description: "দেশের অর্থনৈতিক উন্নয়নে নতুন মাত্রা যোগ হয়েছে। রপ্তানি আয় বৃদ্ধি পেয়েছে।",
				Author:      "অর্থনীতি সংবাদদাতা",
				Date:        "2024-03-25",
				Category:    "অর্থনীতি",
				Featured:    false,
				Status:      models.StatusPublished,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		},
		LastID: 2,
	}
}
