package labapi

import (
	"context"
	"net/url"
	"strconv"

	"labconsole/internal/core/domain/model/history"
)

// TestHistory returns the patient's results for a test in the order the
// backend sent them.
func (c *Client) TestHistory(ctx context.Context, patientID, testID int64) (history.Series, error) {
	query := url.Values{}
	query.Set("patientId", strconv.FormatInt(patientID, 10))
	query.Set("testId", strconv.FormatInt(testID, 10))

	var entries []historyEntryDTO
	if err := c.fetchJSON(ctx, "/api/LabOrder/TestHistory?"+query.Encode(), &entries); err != nil {
		return nil, err
	}
	return historyToDomain(entries), nil
}
