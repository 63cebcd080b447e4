// Package series edits the season and episode tree of a Series document.
// Every function validates before it mutates, so a failed call leaves the
// series exactly as it was.
package series

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
)

// Validate checks the structural rules of a whole series document
func Validate(s *models.Series) error {
	const op = "validate_series"

	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return apperrors.Validation(op, "title", "title is required")
	}
	if strings.TrimSpace(s.ThumbnailURL) == "" {
		return apperrors.Validation(op, "thumbnail_url", "thumbnail is required")
	}
	if s.ContentType != "" && !s.ContentType.Valid() {
		return apperrors.Validationf(op, "content_type", "unknown content type %q", s.ContentType)
	}

	seasonNumbers := make(map[int]bool, len(s.Seasons))
	episodeIDs := make(map[string]bool)
	for _, season := range s.Seasons {
		if err := validateSeason(op, &season); err != nil {
			return err
		}
		if seasonNumbers[season.SeasonNumber] {
			return apperrors.Validationf(op, "season_number", "season %d appears more than once", season.SeasonNumber)
		}
		seasonNumbers[season.SeasonNumber] = true

		for _, ep := range season.Episodes {
			if ep.ID == "" {
				continue
			}
			if episodeIDs[ep.ID] {
				return apperrors.Validationf(op, "episodes", "episode %s appears in more than one place", ep.ID)
			}
			episodeIDs[ep.ID] = true
		}
	}
	return nil
}

func validateSeason(op string, season *models.Season) error {
	if season.SeasonNumber <= 0 {
		return apperrors.Validation(op, "season_number", "season number must be positive")
	}
	numbers := make(map[int]bool, len(season.Episodes))
	for i := range season.Episodes {
		ep := &season.Episodes[i]
		if err := validateEpisode(op, ep); err != nil {
			return err
		}
		if numbers[ep.EpisodeNumber] {
			return apperrors.Validationf(op, "episode_number", "episode %d appears more than once in season %d", ep.EpisodeNumber, season.SeasonNumber)
		}
		numbers[ep.EpisodeNumber] = true
	}
	return nil
}

func validateEpisode(op string, ep *models.Episode) error {
	if ep.EpisodeNumber <= 0 {
		return apperrors.Validation(op, "episode_number", "episode number must be positive")
	}
	if ep.RuntimeMinutes <= 0 {
		return apperrors.Validation(op, "runtime_minutes", "runtime must be positive")
	}
	if ep.Title == "" {
		return apperrors.Validation(op, "title", "episode title is required")
	}
	return nil
}

// Normalize assigns missing ids, repairs season back-references and orders
// seasons and episodes by number
func Normalize(s *models.Series) {
	for i := range s.Seasons {
		season := &s.Seasons[i]
		if season.ID == "" {
			season.ID = uuid.NewString()
		}
		if season.Episodes == nil {
			season.Episodes = []models.Episode{}
		}
		for j := range season.Episodes {
			ep := &season.Episodes[j]
			if ep.ID == "" {
				ep.ID = uuid.NewString()
			}
			ep.SeasonID = season.ID
		}
		sort.SliceStable(season.Episodes, func(a, b int) bool {
			return season.Episodes[a].EpisodeNumber < season.Episodes[b].EpisodeNumber
		})
	}
	sort.SliceStable(s.Seasons, func(a, b int) bool {
		return s.Seasons[a].SeasonNumber < s.Seasons[b].SeasonNumber
	})
	if s.Seasons == nil {
		s.Seasons = []models.Season{}
	}
}

// FindSeason returns the index of the season with id, or -1
func FindSeason(s *models.Series, seasonID string) int {
	for i := range s.Seasons {
		if s.Seasons[i].ID == seasonID {
			return i
		}
	}
	return -1
}

// FindSeasonByNumber returns the index of the season with number, or -1
func FindSeasonByNumber(s *models.Series, number int) int {
	for i := range s.Seasons {
		if s.Seasons[i].SeasonNumber == number {
			return i
		}
	}
	return -1
}

// FindEpisode returns the season and episode indexes holding episodeID
func FindEpisode(s *models.Series, episodeID string) (seasonIdx, episodeIdx int, ok bool) {
	for i := range s.Seasons {
		for j := range s.Seasons[i].Episodes {
			if s.Seasons[i].Episodes[j].ID == episodeID {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// AddSeason appends a new season. Episodes supplied with it are kept.
func AddSeason(s *models.Series, season models.Season) (models.Season, error) {
	const op = "add_season"

	if err := validateSeason(op, &season); err != nil {
		return models.Season{}, err
	}
	if FindSeasonByNumber(s, season.SeasonNumber) >= 0 {
		return models.Season{}, apperrors.Validationf(op, "season_number", "season %d already exists", season.SeasonNumber)
	}

	season.ID = uuid.NewString()
	s.Seasons = append(s.Seasons, season)
	Normalize(s)
	return s.Seasons[FindSeason(s, season.ID)], nil
}

// RemoveSeason deletes a season and every episode in it
func RemoveSeason(s *models.Series, seasonID string) error {
	idx := FindSeason(s, seasonID)
	if idx < 0 {
		return apperrors.NotFound("remove_season", "season", seasonID)
	}
	s.Seasons = append(s.Seasons[:idx:idx], s.Seasons[idx+1:]...)
	return nil
}

// AddEpisode appends an episode to the given season
func AddEpisode(s *models.Series, seasonID string, ep models.Episode) (models.Episode, error) {
	const op = "add_episode"

	idx := FindSeason(s, seasonID)
	if idx < 0 {
		return models.Episode{}, apperrors.NotFound(op, "season", seasonID)
	}
	if err := validateEpisode(op, &ep); err != nil {
		return models.Episode{}, err
	}
	for _, existing := range s.Seasons[idx].Episodes {
		if existing.EpisodeNumber == ep.EpisodeNumber {
			return models.Episode{}, apperrors.Validationf(op, "episode_number", "episode %d already exists in season %d", ep.EpisodeNumber, s.Seasons[idx].SeasonNumber)
		}
	}

	ep.ID = uuid.NewString()
	ep.SeasonID = seasonID
	s.Seasons[idx].Episodes = append(s.Seasons[idx].Episodes, ep)
	Normalize(s)
	return ep, nil
}

// ReplaceEpisode overwrites an episode in place, keeping it in its season
func ReplaceEpisode(s *models.Series, episodeID string, ep models.Episode) (models.Episode, error) {
	const op = "replace_episode"

	si, ei, ok := FindEpisode(s, episodeID)
	if !ok {
		return models.Episode{}, apperrors.NotFound(op, "episode", episodeID)
	}
	if err := validateEpisode(op, &ep); err != nil {
		return models.Episode{}, err
	}
	for j, existing := range s.Seasons[si].Episodes {
		if j != ei && existing.EpisodeNumber == ep.EpisodeNumber {
			return models.Episode{}, apperrors.Validationf(op, "episode_number", "episode %d already exists in season %d", ep.EpisodeNumber, s.Seasons[si].SeasonNumber)
		}
	}

	ep.ID = episodeID
	ep.SeasonID = s.Seasons[si].ID
	s.Seasons[si].Episodes[ei] = ep
	Normalize(s)
	return ep, nil
}

// RemoveEpisode deletes an episode from whichever season holds it
func RemoveEpisode(s *models.Series, episodeID string) error {
	si, ei, ok := FindEpisode(s, episodeID)
	if !ok {
		return apperrors.NotFound("remove_episode", "episode", episodeID)
	}
	eps := s.Seasons[si].Episodes
	s.Seasons[si].Episodes = append(eps[:ei:ei], eps[ei+1:]...)
	return nil
}

// MoveEpisode moves an episode into the season numbered targetSeason. The
// episode is in exactly one season both before and after the call.
func MoveEpisode(s *models.Series, episodeID string, targetSeason int) (models.Episode, error) {
	const op = "move_episode"

	si, ei, ok := FindEpisode(s, episodeID)
	if !ok {
		return models.Episode{}, apperrors.NotFound(op, "episode", episodeID)
	}
	ti := FindSeasonByNumber(s, targetSeason)
	if ti < 0 {
		return models.Episode{}, apperrors.NotFound(op, "season", strconv.Itoa(targetSeason))
	}

	ep := s.Seasons[si].Episodes[ei]
	if ti == si {
		return ep, nil
	}
	for _, existing := range s.Seasons[ti].Episodes {
		if existing.EpisodeNumber == ep.EpisodeNumber {
			return models.Episode{}, apperrors.Validationf(op, "episode_number", "episode %d already exists in season %d", ep.EpisodeNumber, targetSeason)
		}
	}

	// Build both new lists before touching the document
	source := s.Seasons[si].Episodes
	newSource := make([]models.Episode, 0, len(source)-1)
	newSource = append(newSource, source[:ei]...)
	newSource = append(newSource, source[ei+1:]...)

	ep.SeasonID = s.Seasons[ti].ID
	newTarget := make([]models.Episode, 0, len(s.Seasons[ti].Episodes)+1)
	newTarget = append(newTarget, s.Seasons[ti].Episodes...)
	newTarget = append(newTarget, ep)

	s.Seasons[si].Episodes = newSource
	s.Seasons[ti].Episodes = newTarget
	Normalize(s)
	return ep, nil
}

// EpisodeCount returns the number of episodes across all seasons
func EpisodeCount(s *models.Series) int {
	n := 0
	for _, season := range s.Seasons {
		n += len(season.Episodes)
	}
	return n
}
