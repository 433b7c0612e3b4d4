package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"lms/config"
	controllers "lms/controllers/campaign"
	"lms/database"
	"lms/models"
	campaignModels "lms/models/campaign"
	"lms/progress"
	"lms/routers/campaignRoutes"
	"lms/store"
	"lms/streak"
	"lms/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db
	clock := store.UTCClock{}

	// campaigns are looked up locally unless an external authoring service is configured
	var directory store.CampaignDirectory = store.NewGormDirectory(db)
	if config.AppConfig.CampaignApiURL != "" {
		directory = store.NewRemoteDirectory(config.AppConfig.CampaignApiURL, config.AppConfig.CampaignApiKey)
	}

	progressSvc := progress.NewService(store.NewGormEnrollmentStore(db), directory, clock)
	streakEngine := streak.NewEngine(store.NewGormStreakStore(db), clock)

	// enrollment completion drives the streak engine and notifications as a
	// best-effort side update; progress commits never wait on it
	progressSvc.OnEnrollmentCompleted(func(e *campaignModels.Enrollment) {
		go func() {
			var user models.User
			if err := db.Where("id = ? AND is_deleted = ?", e.UserID, false).First(&user).Error; err != nil {
				log.Printf("[STREAK] user %d not found for completion of campaign %d: %v", e.UserID, e.CampaignID, err)
				return
			}

			res, err := streakEngine.RecordCompletion(e.UserID, user.OrganizationID, e.CampaignID)
			if err != nil {
				log.Printf("[STREAK] failed to record completion for user %d: %v", e.UserID, err)
				return
			}

			var cmp campaignModels.Campaign
			title := "your campaign"
			if err := db.First(&cmp, e.CampaignID).Error; err == nil {
				title = cmp.Title
			}
			utils.SendCampaignCompletedEmail(user.Email, user.Name, title)
			if len(res.MilestonesAchieved) > 0 {
				utils.SendStreakMilestoneEmail(user.Email, user.Name, res.MilestonesAchieved, res.Streak.Length)
			}
		}()
	})

	utils.InitializeStreakReminderScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	campaignRoutes.SetupCampaignRoutes(app, controllers.NewProgressController(progressSvc), controllers.NewStreakController(streakEngine))
	campaignRoutes.SetupAdminRoutes(app, controllers.NewAdminController(progressSvc))

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
