package apiv1

import (
	"testing"

	"biz-tools-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestApprovalErrorStatus(t *testing.T) {
	cases := []struct {
		kind   models.ApprovalErrorKind
		status int
	}{
		{models.ErrKindValidation, fiber.StatusBadRequest},
		{models.ErrKindNoFilter, fiber.StatusBadRequest},
		{models.ErrKindNotFound, fiber.StatusNotFound},
		{models.ErrKindAlreadyResolved, fiber.StatusConflict},
		{models.ErrKindInsufficientPrivilege, fiber.StatusForbidden},
		{models.ErrKindApplyFailed, fiber.StatusUnprocessableEntity},
		// ошибка конфигурации сервера, не ошибка вызывающей стороны
		{models.ErrKindUnsupportedOperation, fiber.StatusInternalServerError},
	}
	for _, testCase := range cases {
		t.Run(string(testCase.kind), func(t *testing.T) {
			require.Equal(t, testCase.status, approvalErrorStatus(testCase.kind))
		})
	}
}
