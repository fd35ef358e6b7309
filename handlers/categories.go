package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"wajba-server/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetCategories lists active browse categories in display order
func GetCategories(c *gin.Context) {
	query := `SELECT id, name, name_ar, slug, icon, search_terms, sort_order, is_active, created_at, updated_at
	          FROM categories WHERE is_active = true
	          ORDER BY sort_order ASC, name ASC`

	rows, err := DB.Query(query)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		err := rows.Scan(
			&cat.ID, &cat.Name, &cat.NameAr, &cat.Slug, &cat.Icon,
			&cat.SearchTerms, &cat.SortOrder, &cat.IsActive,
			&cat.CreatedAt, &cat.UpdatedAt,
		)
		if err != nil {
			continue
		}
		categories = append(categories, cat)
	}

	respondOK(c, "OK", gin.H{"categories": categories})
}

// GetCategoryMerchants resolves a category to the merchants matching its
// search terms. Terms match against the merchant's name and tags.
func GetCategoryMerchants(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var searchTerms string
	err = DB.QueryRow(`SELECT search_terms FROM categories WHERE id = $1 AND is_active = true`,
		categoryID).Scan(&searchTerms)
	if err == sql.ErrNoRows {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch category")
		return
	}

	terms := []string{}
	for _, term := range strings.Split(searchTerms, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}

	if len(terms) == 0 {
		respondOK(c, "OK", gin.H{"merchants": []models.Merchant{}})
		return
	}

	// One ILIKE clause per term, OR'd together
	query := `SELECT id, name, description, logo, cover_image, phone, city, quartier, tags,
	          delivery_fee, min_order_amount, rating, is_active, created_at, updated_at
	          FROM merchants WHERE is_active = true AND (`
	args := []interface{}{}
	clauses := []string{}
	for i, term := range terms {
		placeholder := "$" + strconv.Itoa(i+1)
		clauses = append(clauses, "name ILIKE "+placeholder+" OR tags ILIKE "+placeholder)
		args = append(args, "%"+term+"%")
	}
	query += strings.Join(clauses, " OR ") + ") ORDER BY rating DESC, name ASC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch merchants")
		return
	}
	defer rows.Close()

	merchants := []models.Merchant{}
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			continue
		}
		merchants = append(merchants, m)
	}

	respondOK(c, "OK", gin.H{"merchants": merchants})
}
