package churchtools

import (
	"fmt"
	"time"

	"livestream-sync/core/event"
	"livestream-sync/core/utils"
)

// envelope is the response wrapper of every endpoint.
type envelope[T any] struct {
	Data T `json:"data"`
}

type apiEvent struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Note          string `json:"note"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	IsCanceled    bool   `json:"isCanceled"`
	AppointmentID any    `json:"appointmentId"`
	Calendar      struct {
		DomainIdentifier any `json:"domainIdentifier"`
	} `json:"calendar"`
	EventFiles    []apiEventFile    `json:"eventFiles"`
	EventServices []apiEventService `json:"eventServices"`
}

type apiEventFile struct {
	Title            string `json:"title"`
	DomainType       string `json:"domainType"`
	DomainIdentifier any    `json:"domainIdentifier"`
	FrontendURL      string `json:"frontendUrl"`
}

type apiEventService struct {
	ServiceID int    `json:"serviceId"`
	Name      string `json:"name"`
}

type apiMasterData struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type apiFact struct {
	FactID int `json:"factId"`
	Value  any `json:"value"`
}

type apiFile struct {
	DomainID any    `json:"domainId"`
	Name     string `json:"name"`
	FileURL  string `json:"fileUrl"`
}

type apiPost struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	PublicationDate string `json:"publicationDate"`
	Visibility      string `json:"visibility"`
	CommentsActive  bool   `json:"commentsActive"`
}

// postBody is the request body of post creation and updates. Only set
// fields are sent.
type postBody struct {
	GroupID         int     `json:"groupId,omitempty"`
	Title           *string `json:"title,omitempty"`
	Content         *string `json:"content,omitempty"`
	PublicationDate *string `json:"publicationDate,omitempty"`
	Visibility      *string `json:"visibility,omitempty"`
	CommentsActive  *bool   `json:"commentsActive,omitempty"`
}

const dateLayout = "2006-01-02T15:04:05Z"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &event.DataShapeError{What: field, Value: value, Reason: "not an RFC 3339 timestamp"}
	}
	return t, nil
}

func (f apiEventFile) link() *event.ExternalLink {
	return &event.ExternalLink{
		ID:          utils.ToInt(f.DomainIdentifier),
		Kind:        event.LinkKind(f.DomainType),
		DisplayName: f.Title,
		URL:         f.FrontendURL,
	}
}

func (p apiPost) toPost() (event.Post, error) {
	post := event.Post{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		Visibility:     p.Visibility,
		CommentsActive: p.CommentsActive,
	}
	if p.PublicationDate != "" {
		date, err := parseDate("publicationDate", p.PublicationDate)
		if err != nil {
			return event.Post{}, fmt.Errorf("post %d: %w", p.ID, err)
		}
		post.PublicationDate = date
	}
	return post, nil
}

func newPostBody(spec event.PostSpec) postBody {
	date := formatDate(spec.PublicationDate)
	return postBody{
		GroupID:         spec.GroupID,
		Title:           &spec.Title,
		Content:         &spec.Content,
		PublicationDate: &date,
		Visibility:      &spec.Visibility,
		CommentsActive:  &spec.CommentsActive,
	}
}

func patchBody(patch event.PostPatch) postBody {
	body := postBody{
		Title:          patch.Title,
		Content:        patch.Content,
		Visibility:     patch.Visibility,
		CommentsActive: patch.CommentsActive,
	}
	if patch.PublicationDate != nil {
		date := formatDate(*patch.PublicationDate)
		body.PublicationDate = &date
	}
	return body
}
