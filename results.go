package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/atlanticstays/talkguest_backend/etl"
)

const serviceVersion = "1.3.0"

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  "healthy",
			"service": "talkguest-backend",
			"version": serviceVersion,
		})
	}
}

func completedResult(store *dataStore) (*etl.Result, bool) {
	result, state := store.Result()
	return result, state == etl.StateSucceeded && result != nil
}

func resultsHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := completedResult(store)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no results available; run processing first"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"occupancy": result.Occupancy,
			"revenue":   result.Revenue,
			"summary":   result.Summary,
		})
	}
}

func occupancyResultsHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := completedResult(store)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no results available; run processing first"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "occupancy": result.Occupancy})
	}
}

func revenueResultsHandler(store *dataStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := completedResult(store)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no results available; run processing first"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "revenue": result.Revenue})
	}
}
