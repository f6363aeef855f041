package seeder

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"Sistem-Absensi-RFID/models"
	"Sistem-Absensi-RFID/pkg/apperror"
	"Sistem-Absensi-RFID/services"
)

// DemoPassword is shared by the seeded organization and its employees.
const DemoPassword = "Password123"

const demoOrgEmail = "demo.org@example.com"

var demoEmployees = []models.EmployeeCreatePayload{
	{Code: "EMP001", Name: "Asha Rao", Email: "asha.rao@example.com", RFID: "04A1B2C3"},
	{Code: "EMP002", Name: "Budi Santoso", Email: "budi.santoso@example.com", RFID: "04D4E5F6"},
	{Code: "EMP003", Name: "Citra Lestari", Email: "citra.lestari@example.com", RFID: "04778899"},
	{Code: "EMP004", Name: "Dewi Anggraini", Email: "dewi.anggraini@example.com"},
}

// SeedDemo creates a demo organization with a few employees. Running it again is harmless:
// records that already exist are skipped.
func SeedDemo(ctx context.Context, directory services.DirectoryService, logger *zap.Logger) error {
	logger.Info("seeding demo organization")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	org, err := directory.RegisterOrganization(ctx, &models.OrganizationSignupPayload{
		Name:     "Demo Organization",
		Email:    demoOrgEmail,
		Password: DemoPassword,
	})
	switch {
	case errors.Is(err, apperror.ErrDuplicateKey):
		logger.Info("demo organization already exists, reusing it", zap.String("email", demoOrgEmail))
		org, err = directory.AuthenticateOrganization(ctx, demoOrgEmail, DemoPassword)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	}

	for _, payload := range demoEmployees {
		payload.Password = DemoPassword
		emp, err := directory.AddEmployee(ctx, org.ID, &payload)
		if errors.Is(err, apperror.ErrDuplicateKey) {
			logger.Info("skipping employee", zap.String("code", payload.Code), zap.String("field", apperror.DuplicateField(err)))
			continue
		}
		if err != nil {
			logger.Error("failed to seed employee", zap.String("code", payload.Code), zap.Error(err))
			continue
		}
		logger.Info("employee seeded", zap.String("code", emp.Code), zap.String("email", emp.Email))
	}

	logger.Info("seeding finished")
	return nil
}
