package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"

	"hackbot/internal/dto"
	"hackbot/internal/model"
	"hackbot/internal/repo"
	"hackbot/pkg/validator"
)

// OnsiteRole is the fixed role granted after a successful registration.
const OnsiteRole = "onsite participant"

func (s *service) assignCSV(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	if ic.Attachment == nil || !strings.HasSuffix(ic.Attachment.Filename, ".csv") {
		return dto.Ephemeral("Invalid file type. Please upload a CSV file."), nil
	}

	codes, err := extractReferenceCodes(ic.Attachment.Content)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to parse reference code CSV")
		return dto.Ephemeral("Invalid file type. Please upload a CSV file."), nil
	}

	for _, code := range codes {
		if err := s.repo.InsertReferenceCode(ctx, code); err != nil {
			return nil, err
		}
	}

	s.log.Info().Int("codes", len(codes)).Msg("reference codes assigned")
	return dto.Ephemeral("Reference codes have been assigned successfully."), nil
}

// extractReferenceCodes takes the first column of every data row; the
// header row is skipped, blank cells are dropped.
func extractReferenceCodes(content string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var codes []string
	for i, record := range records {
		if i == 0 || len(record) == 0 {
			continue
		}
		code := strings.TrimSpace(record[0])
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func (s *service) reset(ctx context.Context, _ *dto.Interaction) (*dto.Reply, error) {
	if err := s.repo.ResetRegistrationTables(ctx); err != nil {
		return nil, err
	}
	return dto.Ephemeral("Database has been reset successfully."), nil
}

func registrationModal() *dto.Reply {
	return dto.Modal("ลงทะเบียน", []dto.ModalField{
		{Name: "reference_code", Label: "Reference Code (รหัสอ้างอิง)", Placeholder: "XXXXXX", Required: true},
		{Name: "allergy", Label: "Food Allergy (อาหารที่แพ้)", Placeholder: "(Optional)", Required: false},
		{Name: "tshirt_size", Label: "T-Shirt Size (ขนาดเสื้อ)", Placeholder: "(XS, S, M, L, XL, XXL, etc.)", Required: true},
		{Name: "single", Label: "Single or Taken (โสดหรือไม่)", Placeholder: "Y/N (Optional)", Required: false},
	})
}

func (s *service) register(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	if ic.Type == dto.InteractionCommand {
		return registrationModal(), nil
	}
	return s.registerSubmit(ctx, ic)
}

// registerSubmit runs the intake-form checks in a fixed order: code
// length, code known, code unused, t-shirt size, relationship field.
// The first failure replies without touching the database.
func (s *service) registerSubmit(ctx context.Context, ic *dto.Interaction) (*dto.Reply, error) {
	code := strings.ToUpper(strings.TrimSpace(ic.Fields["reference_code"]))
	if verr := validator.Validate(ctx, dto.RegisterCodeRequest{Code: code}); verr != nil {
		return dto.Ephemeral(verr.Error()), nil
	}

	rc, err := s.repo.GetReferenceCode(ctx, code)
	if err != nil {
		if errors.Is(err, repo.ErrCodeNotFound) {
			return dto.Ephemeral("Invalid reference code. Please check your reference code and try again."), nil
		}
		return nil, err
	}
	if rc.Used {
		return dto.Ephemeral("Reference code has already been used."), nil
	}

	size := strings.ToUpper(strings.TrimSpace(ic.Fields["tshirt_size"]))
	rawSingle := strings.ToUpper(strings.TrimSpace(ic.Fields["single"]))
	if verr := validator.Validate(ctx, dto.RegisterFormRequest{TshirtSize: size, Single: rawSingle}); verr != nil {
		return dto.Ephemeral(verr.Error()), nil
	}

	var single *bool
	if rawSingle != "" {
		v := rawSingle == "Y"
		single = &v
	}

	reg := &model.Registration{
		UserID:        ic.Caller.UserID,
		ReferenceCode: code,
		Allergy:       strings.TrimSpace(ic.Fields["allergy"]),
		TshirtSize:    size,
		Single:        single,
	}
	if err := s.repo.RegisterTx(ctx, reg); err != nil {
		// The code can be spent between the read above and the locked
		// write; report it the same way as the early check.
		if errors.Is(err, repo.ErrCodeUsed) {
			return dto.Ephemeral("Reference code has already been used."), nil
		}
		if errors.Is(err, repo.ErrCodeNotFound) {
			return dto.Ephemeral("Invalid reference code. Please check your reference code and try again."), nil
		}
		return nil, err
	}

	s.log.Info().Int64("user_id", ic.Caller.UserID).Msg("registration recorded")
	s.queueRole(dto.RoleGrant, ic.Caller.UserID, OnsiteRole)

	return dto.Ephemeral("ลงทะเบียนสำเร็จแล้ว"), nil
}
