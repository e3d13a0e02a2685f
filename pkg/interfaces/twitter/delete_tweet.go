package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrNotDeleted is returned when the API answers without confirming the delete.
var ErrNotDeleted = errors.New("tweet was not deleted")

// DeleteTweet removes a tweet owned by creds. A tweet that no longer exists
// counts as deleted.
func (c *TwitterClient) DeleteTweet(ctx context.Context, tweetID string, creds Credentials) (bool, error) {
	if tweetID == "" {
		return false, fmt.Errorf("tweet id is required")
	}

	log := c.logger.WithFields(logrus.Fields{
		"tweet_id":    tweetID,
		"credentials": creds.Name,
	})

	body, err := c.makeRequest(ctx, creds, http.MethodDelete, c.config.TweetEndpoint+"/"+tweetID, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			log.Debug("Tweet already gone")
			return true, nil
		}
		return false, err
	}

	var deleteResponse DeleteTweetResponse
	if err := json.Unmarshal(body, &deleteResponse); err != nil {
		return false, fmt.Errorf("failed to decode delete response: %w", err)
	}
	if !deleteResponse.Data.Deleted {
		return false, ErrNotDeleted
	}

	log.Debug("Tweet deleted")
	return true, nil
}
