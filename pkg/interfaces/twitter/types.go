package twitter

// Tweet is the subset of the v2 tweet object the quest runner needs.
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TweetResponse wraps a single tweet returned by POST /tweets.
type TweetResponse struct {
	Data *Tweet `json:"data"`
}

// CreateTweetRequest represents the request body for creating a tweet
type CreateTweetRequest struct {
	Text string `json:"text"`
}

// DeleteTweetResponse represents the response from deleting a tweet
type DeleteTweetResponse struct {
	Data struct {
		Deleted bool `json:"deleted"`
	} `json:"data"`
}

// errorResponse covers both the v1.1 style errors array and v2 problem details.
type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"errors"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
