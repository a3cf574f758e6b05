package main

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"bitbucket.org/atlanticstays/talkguest_backend/config"
	"bitbucket.org/atlanticstays/talkguest_backend/etl"
	"bitbucket.org/atlanticstays/talkguest_backend/utils"
)

type processRequest struct {
	Config *configOverride `json:"config"`
}

type configOverride struct {
	IvaRates         map[string]float64  `json:"iva_rates" validate:"omitempty,dive,gte=0,lte=1"`
	PropertyGroups   map[string][]string `json:"property_groups"`
	PlaceholderWords []string            `json:"placeholder_words" validate:"omitempty,dive,min=1"`
}

var validate = validator.New()

func processHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		if !store.ReadyToProcess() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "both guests and reservations files must be uploaded before processing",
			})
			return
		}

		var req processRequest
		if c.Request.Body != nil && c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
				return
			}
		}

		var override *etl.Override
		if req.Config != nil {
			if err := validate.Struct(req.Config); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "invalid configuration",
					"fields":  utils.ProcessValidationErrors(err),
				})
				return
			}
			override = &etl.Override{
				IvaRates:         req.Config.IvaRates,
				PropertyGroups:   req.Config.PropertyGroups,
				PlaceholderWords: req.Config.PlaceholderWords,
			}
		}

		guests, _ := store.File(fileTypeGuests)
		reservations, _ := store.File(fileTypeReservations)
		var invoices *etl.Table
		if f, ok := store.File(fileTypeInvoices); ok {
			invoices = &f.Table
		}

		settings := etl.DefaultSettings().Apply(override)
		pipeline := etl.NewPipeline(settings, logger)
		result := pipeline.Run(guests.Table, reservations.Table, invoices)

		if !result.Success {
			store.SetResult(&result, etl.StateFailed)
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"errors":  result.Errors,
				"log":     result.Log,
			})
			return
		}

		store.SetResult(&result, etl.StateSucceeded)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"summary": result.Summary,
			"log":     result.Log,
		})
	}
}

func processStatusHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, state := store.Result()
		switch state {
		case etl.StateSucceeded:
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"status":  "completed",
				"summary": result.Summary,
				"log":     result.Log,
			})
		case etl.StateFailed:
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"status":  "failed",
				"errors":  result.Errors,
				"log":     result.Log,
			})
		default:
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"status":  "not_started",
			})
		}
	}
}
