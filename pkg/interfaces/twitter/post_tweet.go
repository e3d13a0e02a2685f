package twitter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// PostTweet publishes text using creds and returns the created tweet.
func (c *TwitterClient) PostTweet(ctx context.Context, text string, creds Credentials) (*Tweet, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	body, err := c.makeRequest(ctx, creds, "POST", c.config.TweetEndpoint, CreateTweetRequest{Text: text})
	if err != nil {
		c.logger.WithError(err).WithField("credentials", creds.Name).Error("failed to post tweet")
		return nil, err
	}

	var tweetResponse TweetResponse
	if err := json.Unmarshal(body, &tweetResponse); err != nil {
		c.logger.WithError(err).WithField("body", string(body)).Error("failed to decode tweet response")
		return nil, fmt.Errorf("failed to decode tweet response: %w", err)
	}
	if tweetResponse.Data == nil || tweetResponse.Data.ID == "" {
		return nil, fmt.Errorf("tweet response missing id: %s", string(body))
	}

	c.logger.WithFields(logrus.Fields{
		"tweet_id":    tweetResponse.Data.ID,
		"credentials": creds.Name,
		"link":        StatusURL(tweetResponse.Data.ID),
	}).Info("Tweet posted")

	return tweetResponse.Data, nil
}

// StatusURL is the public link to a tweet.
func StatusURL(id string) string {
	return "https://x.com/i/web/status/" + id
}
