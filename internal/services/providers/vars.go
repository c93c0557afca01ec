package providers

import (
	"strings"

	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/utils"
)

// BuildVariables maps a channel snapshot onto the template variable set.
// Counts are formatted as grouped decimal strings and list values joined
// with ", " so the rendered prompt reads naturally.
func BuildVariables(req *models.AnalysisRequest) map[string]any {
	ch := req.Channel

	vars := map[string]any{
		"channel_title":       ch.Title,
		"channel_description": ch.Description,
		"subscriber_count":    utils.FormatGroupedInt(ch.SubscriberCount),
		"video_count":         utils.FormatGroupedInt(ch.VideoCount),
		"view_count":          utils.FormatGroupedInt(ch.ViewCount),
		"content_type":        ch.ContentType,
		"topics":              strings.Join(ch.Topics, ", "),
		"focus_areas":         strings.Join(req.Options.FocusAreas, ", "),
	}

	if len(ch.RecentVideos) > 0 {
		videos := make([]map[string]any, 0, len(ch.RecentVideos))
		for _, v := range ch.RecentVideos {
			videos = append(videos, map[string]any{
				"title":    v.Title,
				"views":    utils.FormatGroupedInt(v.Views),
				"likes":    utils.FormatGroupedInt(v.Likes),
				"comments": utils.FormatGroupedInt(v.Comments),
			})
		}
		vars["recent_videos"] = videos
	}

	return vars
}
