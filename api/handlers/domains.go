package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/enum"
	er "github.com/dropradar/dropstack/internal/errors"
	"github.com/dropradar/dropstack/internal/utils"
)

// ListDomains serves the filtered, sorted, paginated read query over the
// store for the presentation layer
func ListDomains(repo interfaces.DomainRecordRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := interfaces.DomainRecordFilter{
			Tld:    strings.TrimSpace(c.Query("tld")),
			Search: strings.TrimSpace(c.Query("search")),
			SortBy: c.DefaultQuery("sort", "score"),
		}
		if status := c.Query("status"); status != "" {
			filter.Status = enum.GetDomainStatus(status)
		}
		if minScore := c.Query("minScore"); minScore != "" {
			v, err := strconv.Atoi(minScore)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "minScore must be an integer"})
				return
			}
			filter.MinScore = v
		}
		filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "25"))

		records, total, err := repo.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list domains"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"domains":    records,
			"totalCount": total,
			"page":       filter.Page,
			"limit":      filter.Limit,
		})
	}
}

// GetDomain looks up one record by domain name or its slug form
func GetDomain(repo interfaces.DomainRecordRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := utils.NormalizeDomainName(c.Param("name"))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "domain name is required"})
			return
		}
		if !strings.Contains(name, ".") {
			name = utils.SlugToDomain(name)
		}

		record, err := repo.GetByDomainName(c.Request.Context(), name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load domain"})
			return
		}
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": er.ErrDomainNotFound.Error()})
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

// DomainStats reports record counts per lifecycle status
func DomainStats(repo interfaces.DomainRecordRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := repo.CountByStatus(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count domains"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"statusCounts": counts})
	}
}
