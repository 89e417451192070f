package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/models"
)

/*
=======================
  MULTIPART INPUT
=======================
*/

type ProductFormInput struct {
	Name         string
	Description  string
	Price        float64
	Category     string
	CountInStock int
	Materials    []string
	Dimensions   *models.Dimensions
	Weight       *models.Weight
	Tags         []string
	CraftType    string
	Region       string
	Images       []string
	Videos       []string
}

// parseProductForm reads the multipart product submission and stores any
// uploaded media. Array fields accept repeated form values; dimensions and
// weight arrive as JSON blobs, matching the storefront's submission format.
func parseProductForm(c *gin.Context, uploadDir string) (ProductFormInput, error) {
	if err := c.Request.ParseMultipartForm(64 << 20); err != nil {
		return ProductFormInput{}, err
	}

	input := ProductFormInput{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		CraftType:   strings.TrimSpace(c.PostForm("craftType")),
		Region:      strings.TrimSpace(c.PostForm("region")),
		Materials:   trimAll(c.PostFormArray("materials")),
		Tags:        trimAll(c.PostFormArray("tags")),
	}

	if input.Name == "" || input.Description == "" || input.Category == "" ||
		input.CraftType == "" || input.Region == "" {
		return ProductFormInput{}, errors.New("name, description, category, craftType and region are required")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("price")), 64)
	if err != nil || price < 0 {
		return ProductFormInput{}, errors.New("price must be a non-negative number")
	}
	input.Price = price

	stock, err := strconv.Atoi(strings.TrimSpace(c.PostForm("countInStock")))
	if err != nil || stock < 0 {
		return ProductFormInput{}, errors.New("countInStock must be a non-negative integer")
	}
	input.CountInStock = stock

	if raw := strings.TrimSpace(c.PostForm("dimensions")); raw != "" {
		var dimensions models.Dimensions
		if err := json.Unmarshal([]byte(raw), &dimensions); err != nil {
			return ProductFormInput{}, errors.New("invalid dimensions")
		}
		input.Dimensions = &dimensions
	}

	if raw := strings.TrimSpace(c.PostForm("weight")); raw != "" {
		var weight models.Weight
		if err := json.Unmarshal([]byte(raw), &weight); err != nil {
			return ProductFormInput{}, errors.New("invalid weight")
		}
		input.Weight = &weight
	}

	form := c.Request.MultipartForm
	if form != nil {
		for _, file := range form.File["images"] {
			path, err := saveImage(file, uploadDir)
			if err != nil {
				return ProductFormInput{}, err
			}
			input.Images = append(input.Images, path)
		}
		for _, file := range form.File["videos"] {
			path, err := saveVideo(file, uploadDir)
			if err != nil {
				return ProductFormInput{}, err
			}
			input.Videos = append(input.Videos, path)
		}
	}

	return input, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
