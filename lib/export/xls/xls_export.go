package xlsexport

import (
	"bytes"

	"biz-tools-backend/models"
	approvalapimodels "biz-tools-backend/models/api/approval"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportApprovalList(list []approvalapimodels.ApprovalView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var approvalHeaders = []string{"Цель", "Действие", "Объект", "Автор", "Согласующий", "Статус", "Дата создания", "Дата решения"}

func (i impl) ExportApprovalList(list []approvalapimodels.ApprovalView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, approvalHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeApprovalData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Согласования")
	return f.WriteToBuffer()
}

func writeApprovalData(f *excelize.File, sheet string, list []approvalapimodels.ApprovalView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(approvalHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Цель"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.TargetHuman); err != nil {
			return row, err
		}

		// "Действие"
		col++
		if err := writeColumn(f, sheet, col, row, item.ActionHuman); err != nil {
			return row, err
		}

		// "Объект"
		col++
		if err := writeColumn(f, sheet, col, row, item.ObjectID); err != nil {
			return row, err
		}

		// "Автор"
		col++
		if err := writeColumn(f, sheet, col, row, item.RequesterName); err != nil {
			return row, err
		}

		// "Согласующий"
		col++
		if err := writeColumn(f, sheet, col, row, item.ReviewerName); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.StatusHuman); err != nil {
			return row, err
		}

		// "Дата создания"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("02.01.2006 15:04")); err != nil {
			return row, err
		}

		// "Дата решения"
		col++
		if item.Status != models.ApprovalStatusPending {
			if err := writeColumn(f, sheet, col, row, item.UpdatedAt.Format("02.01.2006 15:04")); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
