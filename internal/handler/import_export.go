package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repository"
	"finance-ledger/internal/service"
	"finance-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"id", "title", "type", "value", "category", "created_at"}

type ImportExportHandler struct {
	Service   *service.TransactionService
	Store     *repository.Store
	Log       logrus.FieldLogger
	UploadDir string
	MaxBytes  int64
}

func NewImportExportHandler(svc *service.TransactionService, store *repository.Store, log logrus.FieldLogger, uploadDir string, maxSizeMB int64) *ImportExportHandler {
	return &ImportExportHandler{
		Service:   svc,
		Store:     store,
		Log:       log,
		UploadDir: uploadDir,
		MaxBytes:  maxSizeMB << 20,
	}
}

// ImportCSV 接收上传的 CSV 文件并批量导入
func (h *ImportExportHandler) ImportCSV(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			util.Error(c, http.StatusRequestEntityTooLarge, util.CodeTooLarge, "file too large")
			return
		}
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing file field")
		return
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".csv" && ext != ".txt" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "only .csv files can be imported")
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		h.Log.WithError(err).Error("create upload dir")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to store upload")
		return
	}

	// 使用 uuid 作为文件名，避免冲突
	path := filepath.Join(h.UploadDir, uuid.New().String()+".csv")
	if err := c.SaveUploadedFile(fh, path); err != nil {
		h.Log.WithError(err).Error("save upload")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to store upload")
		return
	}

	res, err := h.Service.ImportTransactions(c.Request.Context(), path)
	if err != nil {
		// the importer only removes the file on success
		_ = os.Remove(path)
		h.Log.WithError(err).WithField("upload", fh.Filename).Error("import transactions")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "import failed")
		return
	}

	util.Created(c, util.Response{
		"transactions":       res.Transactions,
		"imported":           res.Imported,
		"skipped":            res.Skipped,
		"categories_created": res.CategoriesCreated,
		"balance":            res.Balance,
	})
}

func exportRow(t *models.Transaction) []string {
	category := ""
	if t.Category != nil {
		category = t.Category.Title
	}
	return []string{
		fmt.Sprint(t.ID),
		t.Title,
		string(t.Type),
		t.Value.StringFixed(2),
		category,
		t.CreatedAt.Format(time.RFC3339),
	}
}

// ExportCSV 导出交易为 CSV
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	// 设置响应头
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(exportHeader); err != nil {
		h.Log.WithError(err).Error("export csv")
		return
	}

	err := h.Store.AllTransactions(c.Request.Context(), func(t *models.Transaction) error {
		return writer.Write(exportRow(t))
	})
	writer.Flush()
	if err == nil {
		err = writer.Error()
	}
	if err != nil {
		// headers are already sent; the truncated body is all we can do
		h.Log.WithError(err).Error("export csv")
	}
}

// ExportXLSX 导出交易为 XLSX
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}

	_ = sw.SetColWidth(2, 2, 30)
	_ = sw.SetColWidth(5, 5, 20)
	_ = sw.SetColWidth(6, 6, 22)

	if err := sw.SetRow("A1", toCells(exportHeader)); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}

	row := 2
	err = h.Store.AllTransactions(c.Request.Context(), func(t *models.Transaction) error {
		cells := toCells(exportRow(t))
		cells[0] = t.ID
		cells[3] = t.Value.InexactFloat64()
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return sw.SetRow(cell, cells)
	})
	if err == nil {
		err = sw.Flush()
	}
	if err != nil {
		h.Log.WithError(err).Error("export xlsx")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.Log.WithError(err).Error("export xlsx")
	}
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
