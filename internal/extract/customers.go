package extract

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"crmlake/internal/record"
)

// CustomerSource names the customer extraction collaborator.
const CustomerSource = "RandomUser API"

// randomUserResponse mirrors the RandomUser API payload, reduced to
// the fields the pipeline keeps.
type randomUserResponse struct {
	Results []randomUser `json:"results"`
}

type randomUser struct {
	Gender string `json:"gender"`
	Name   struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Location struct {
		Street struct {
			Number int    `json:"number"`
			Name   string `json:"name"`
		} `json:"street"`
		City     string      `json:"city"`
		State    string      `json:"state"`
		Country  string      `json:"country"`
		Postcode interface{} `json:"postcode"` // string or number depending on nationality
	} `json:"location"`
	Email string `json:"email"`
	Dob   struct {
		Date string `json:"date"`
		Age  int    `json:"age"`
	} `json:"dob"`
	Registered struct {
		Date string `json:"date"`
	} `json:"registered"`
	Phone   string `json:"phone"`
	Cell    string `json:"cell"`
	Picture struct {
		Medium string `json:"medium"`
	} `json:"picture"`
	Nat string `json:"nat"`
}

// Customers extracts count synthetic customer profiles and returns
// them as a staging dataset.
func (e *Extractor) Customers(ctx context.Context, count int) (*record.Dataset, error) {
	params := url.Values{}
	params.Set("results", fmt.Sprintf("%d", count))
	params.Set("nat", e.cfg.Nationalities)
	reqURL := fmt.Sprintf("%s?%s", e.cfg.RandomUserURL, params.Encode())

	e.logger.WithFields(map[string]interface{}{
		"count":  count,
		"source": CustomerSource,
	}).Info("Extracting customers")

	var resp randomUserResponse
	if err := e.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}

	extractedAt := e.now().UTC()
	records := make([]record.Record, 0, len(resp.Results))
	for idx, user := range resp.Results {
		records = append(records, customerRecord(user, idx+1, extractedAt))
	}

	e.logger.WithField("records", len(records)).Info("Customer extraction complete")

	return record.New(record.KindCustomers, CustomerSource, extractedAt, records), nil
}

// customerRecord flattens one RandomUser profile into the staging
// record shape.
func customerRecord(user randomUser, seq int, extractedAt time.Time) record.Record {
	rec := record.Record{
		"id":              record.String(fmt.Sprintf("CUST-%05d", seq)),
		"email":           record.String(user.Email),
		"first_name":      record.String(user.Name.First),
		"last_name":       record.String(user.Name.Last),
		"gender":          record.String(user.Gender),
		"phone":           record.String(user.Phone),
		"cell":            record.String(user.Cell),
		"street":          record.String(fmt.Sprintf("%d %s", user.Location.Street.Number, user.Location.Street.Name)),
		"city":            record.String(user.Location.City),
		"state":           record.String(user.Location.State),
		"country":         record.String(user.Location.Country),
		"postcode":        record.String(formatPostcode(user.Location.Postcode)),
		"age":             record.Number(float64(user.Dob.Age)),
		"picture_url":     record.String(user.Picture.Medium),
		"nationality":     record.String(user.Nat),
		"extracted_at":    record.Time(extractedAt),
		"date_of_birth":   timeOrString(user.Dob.Date),
		"registered_date": timeOrString(user.Registered.Date),
	}
	return rec
}

// timeOrString parses an API timestamp, falling back to the raw
// string so the type-enforcement rule can flag it instead of the
// extractor aborting the run.
func timeOrString(s string) record.Value {
	if s == "" {
		return record.Null()
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return record.Time(ts)
	}
	return record.String(s)
}

func formatPostcode(v interface{}) string {
	switch p := v.(type) {
	case string:
		return p
	case float64:
		return fmt.Sprintf("%.0f", p)
	case nil:
		return ""
	default:
		return fmt.Sprint(p)
	}
}
