package main

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"bitbucket.org/atlanticstays/talkguest_backend/config"
	"bitbucket.org/atlanticstays/talkguest_backend/etl"
)

var validFileTypes = map[string]bool{
	fileTypeGuests:       true,
	fileTypeReservations: true,
	fileTypeInvoices:     true,
}

var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

const uploadPreviewRows = 5

func uploadHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		fileType := strings.ToLower(strings.TrimSpace(c.Param("type")))
		if !validFileTypes[fileType] {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("invalid file type %q; expected guests, reservations or invoices", fileType),
			})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no file provided in field \"file\""})
			return
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !spreadsheetExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("unsupported file extension %q; only .xlsx and .xls are accepted", ext),
			})
			return
		}

		table, err := parseWorkbook(fileHeader)
		if err != nil {
			config.LogError(logger, "uploads.go", "uploadHandler", "parseWorkbook", fileHeader.Filename, err)
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("could not read spreadsheet: %v", err),
			})
			return
		}

		// Catch guest/reservation files uploaded under the wrong type before
		// they poison a pipeline run. Unrecognized headers pass through; the
		// pipeline reports those on its own.
		if detected := etl.DetectTableKind(table.Columns); detected != "" &&
			fileType != fileTypeInvoices && detected != fileType {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("this file looks like a %s export; upload it as type %q", detected, detected),
			})
			return
		}

		store.PutFile(fileType, &uploadedFile{
			Filename: fileHeader.Filename,
			Table:    table,
		})

		logger.WithFields(logrus.Fields{
			"file_type": fileType,
			"filename":  fileHeader.Filename,
			"rows":      len(table.Rows),
		}).Info("[upload.stored]")

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"file_type": fileType,
			"filename":  fileHeader.Filename,
			"row_count": len(table.Rows),
			"columns":   table.Columns,
			"preview":   tablePreview(table, uploadPreviewRows),
		})
	}
}

func uploadStatusHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		files := gin.H{}
		for fileType := range validFileTypes {
			f, ok := store.File(fileType)
			if !ok {
				files[fileType] = gin.H{"uploaded": false}
				continue
			}
			files[fileType] = gin.H{
				"uploaded":  true,
				"filename":  f.Filename,
				"row_count": len(f.Table.Rows),
				"columns":   f.Table.Columns,
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"files":            files,
			"ready_to_process": store.ReadyToProcess(),
		})
	}
}

func deleteUploadHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileType := strings.ToLower(strings.TrimSpace(c.Param("type")))
		if !validFileTypes[fileType] {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   fmt.Sprintf("invalid file type %q; expected guests, reservations or invoices", fileType),
			})
			return
		}
		if !store.DeleteFile(fileType) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   fmt.Sprintf("no %s file uploaded", fileType),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "file_type": fileType})
	}
}

func clearUploadsHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		store.Clear()
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "all uploaded data cleared"})
	}
}

// parseWorkbook reads the first sheet of an uploaded workbook into a Table.
// The first row is the header; everything below is data.
func parseWorkbook(fileHeader *multipart.FileHeader) (etl.Table, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return etl.Table{}, err
	}
	defer src.Close()

	workbook, err := excelize.OpenReader(src)
	if err != nil {
		return etl.Table{}, err
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return etl.Table{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return etl.Table{}, err
	}
	if len(rows) == 0 {
		return etl.Table{}, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	return etl.Table{Columns: rows[0], Rows: rows[1:]}, nil
}

func tablePreview(t etl.Table, limit int) []map[string]string {
	if limit > len(t.Rows) {
		limit = len(t.Rows)
	}
	preview := make([]map[string]string, 0, limit)
	for i := 0; i < limit; i++ {
		record := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			value := ""
			if j < len(t.Rows[i]) {
				value = t.Rows[i][j]
			}
			record[col] = value
		}
		preview = append(preview, record)
	}
	return preview
}
