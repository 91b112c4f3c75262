package api

import (
	"encoding/json" // Decoding the geocoding response
	"net/http"      // HTTP status codes and the outbound client
	"net/url"       // Query-string assembly
	"strconv"       // String conversion
	"time"          // Outbound request timeout

	"github.com/gin-gonic/gin" // Gin web framework
)

// geocodingAPIURL is a package variable so tests can point the handler at a
// stub server
var geocodingAPIURL = "https://maps.googleapis.com/maps/api/geocode/json"

// geocodingClient bounds the outbound call so a slow upstream cannot pin the
// request forever
var geocodingClient = &http.Client{Timeout: 10 * time.Second}

// geocodeResponse mirrors the slice of the Google Geocoding payload we read
type geocodeResponse struct {
	Status  string `json:"status"` // "OK" on success
	Results []struct {
		FormattedAddress  string `json:"formatted_address"` // Human-readable address
		PlaceID           string `json:"place_id"`          // Upstream place identifier
		AddressComponents []struct {
			LongName string   `json:"long_name"` // Component display name
			Types    []string `json:"types"`     // Component type tags
		} `json:"address_components"`
	} `json:"results"`
}

// GeocodingHandler reverse-geocodes a latitude/longitude pair into a postal
// address through the Google Maps Geocoding API
func GeocodingHandler(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		latitude := c.Query("latitude")   // Latitude query parameter
		longitude := c.Query("longitude") // Longitude query parameter
		// Both coordinates are required
		if latitude == "" || longitude == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required parameters: latitude and longitude"})
			return
		}
		// The upstream call needs a configured key
		if apiKey == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Geocoding API key is not configured"})
			return
		}
		// Assemble the upstream request
		params := url.Values{}
		params.Set("latlng", latitude+","+longitude) // Coordinates to resolve
		params.Set("key", apiKey)                    // API key
		resp, err := geocodingClient.Get(geocodingAPIURL + "?" + params.Encode())
		if err != nil {
			// Upstream unreachable
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get address from coordinates"})
			return
		}
		defer resp.Body.Close() // Always release the body
		if resp.StatusCode != http.StatusOK {
			// Upstream rejected the request
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get address from coordinates"})
			return
		}
		var data geocodeResponse // Decoded upstream payload
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get address from coordinates"})
			return
		}
		// No result means the coordinates resolve to nothing useful
		if data.Status != "OK" || len(data.Results) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Could not find address for this location"})
			return
		}
		best := data.Results[0] // The most accurate result comes first
		// Extract the city from the address components
		city := "Unknown"
		for _, component := range best.AddressComponents {
			for _, t := range component.Types {
				if t == "locality" || t == "administrative_area_level_2" {
					city = component.LongName // Found the locality
					break
				}
			}
			if city != "Unknown" {
				break // Stop at the first locality match
			}
		}
		lat, _ := strconv.ParseFloat(latitude, 64)   // Echo the coordinates back as numbers
		lng, _ := strconv.ParseFloat(longitude, 64)
		// Return the resolved address
		c.JSON(http.StatusOK, gin.H{
			"success": true, // Envelope flag
			"address": gin.H{
				"formattedAddress": best.FormattedAddress, // Human-readable address
				"city":             city,                  // Extracted locality
				"latitude":         lat,                   // Resolved latitude
				"longitude":        lng,                   // Resolved longitude
				"placeId":          best.PlaceID,          // Upstream place identifier
			},
		})
	}
}
