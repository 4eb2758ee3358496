package database

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"gorm.io/gorm"

	"taskhub/backend/internal/models"
	"taskhub/backend/internal/services"
)

type seedUser struct {
	Email    string
	Password string
	FullName string
}

var seedUsers = []seedUser{
	{Email: "admin@taskhub.local", Password: "adminpassword", FullName: "System Administrator"},
	{Email: "jane.doe@example.com", Password: "password123", FullName: "Jane Doe"},
	{Email: "mark.smith@example.com", Password: "password123", FullName: "Mark Smith"},
}

var seedTasks = [][2]string{
	{"Finish monthly report", "Compile the December KPI document for management."},
	{"Code review", "Work through the pending pull requests on the backend repository."},
	{"Client meeting", "Discuss the new requirements for the inventory module."},
	{"Update documentation", "Bring the user manual in line with the latest features."},
	{"Tune database indexes", "Review query plans and add missing indexes."},
	{"Integration test run", "Execute the full suite against the staging environment."},
	{"UI design", "Draft mockups for the new profile screen."},
	{"Fix login timeout", "Investigate why some users hit a timeout on sign-in."},
	{"Set up CI pipeline", "Adjust the build pipeline for automatic deployments."},
	{"Market research", "Analyze competitors and write up the findings."},
	{"Verify backups", "Confirm the nightly backups are completing and restorable."},
	{"Security training", "Prepare a talk on API security best practices."},
	{"Server migration", "Plan the move between cloud providers."},
	{"Vulnerability scan", "Run the infrastructure security scanner and triage results."},
	{"Sprint planning", "Lay out the tasks for the next development cycle."},
	{"Log review", "Look for recurring errors in the production logs."},
	{"Accessibility pass", "Check the web app against WCAG 2.1."},
	{"Service refactor", "Remove duplicated code in the service layer."},
	{"Monitoring alerts", "Add memory usage alerts to the dashboards."},
	{"Technical interview", "Evaluate candidates for the senior developer role."},
	{"Budget estimate", "Project infrastructure costs for next quarter."},
	{"Tier-2 support", "Work the tickets escalated by the front line."},
}

// Seed inserts the demo users and a base set of tasks. It is idempotent:
// existing users are reused, and tasks are only injected while the table
// holds fewer than 20 rows.
func Seed(db *gorm.DB, bcryptCost int) error {
	users := make([]models.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		var user models.User
		err := db.Where("email = ?", su.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash, hashErr := services.HashPassword(su.Password, bcryptCost)
			if hashErr != nil {
				return fmt.Errorf("hashing seed password: %w", hashErr)
			}
			user = models.User{Email: su.Email, PasswordHash: hash, FullName: su.FullName}
			if err := db.Create(&user).Error; err != nil {
				return fmt.Errorf("creating seed user %s: %w", su.Email, err)
			}
			slog.Info("seed user created", "email", user.Email)
		} else if err != nil {
			return fmt.Errorf("looking up seed user %s: %w", su.Email, err)
		}
		users = append(users, user)
	}

	var taskCount int64
	if err := db.Model(&models.Task{}).Count(&taskCount).Error; err != nil {
		return fmt.Errorf("counting tasks: %w", err)
	}
	if taskCount >= 20 {
		slog.Info("task seed skipped", "existing", taskCount)
		return nil
	}

	statuses := []models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusDone}
	for _, td := range seedTasks {
		owner := users[rand.Intn(len(users))]
		task := models.Task{
			Title:       td[0],
			Description: td[1],
			Status:      statuses[rand.Intn(len(statuses))],
			UserID:      owner.ID,
		}
		if err := db.Create(&task).Error; err != nil {
			return fmt.Errorf("creating seed task %q: %w", td[0], err)
		}
	}

	slog.Info("seed tasks injected", "count", len(seedTasks))
	return nil
}
