package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jakga/glotian/internal/config"
	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/models"
	"github.com/jakga/glotian/internal/sync"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Capture a note, flashcard, deck, or preference",
	Long: `Capture a note, flashcard, deck, or preference.

Items are stored in the local cache immediately and queued for sync;
they reach the server the next time 'glotian sync' runs (or the
background schedule fires).`,
}

var (
	noteURL      string
	noteTitle    string
	noteLanguage string
	noteTags     []string
)

var addNoteCmd = &cobra.Command{
	Use:   "note <text>",
	Short: "Capture a text snippet as a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddNote,
}

var (
	cardDeck       string
	cardExample    string
	cardLanguage   string
	cardDifficulty string
)

var addCardCmd = &cobra.Command{
	Use:   "card <front> <back>",
	Short: "Create a flashcard",
	Args:  cobra.ExactArgs(2),
	RunE:  runAddCard,
}

var (
	deckDescription string
	deckLanguage    string
)

var addDeckCmd = &cobra.Command{
	Use:   "deck <name>",
	Short: "Create a flashcard deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddDeck,
}

var addPrefCmd = &cobra.Command{
	Use:   "pref <key> <value>",
	Short: "Set a preference",
	Long: `Set a preference.

Known keys: ` + strings.Join(models.ValidPreferenceKeys(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: runAddPref,
}

func init() {
	addNoteCmd.Flags().StringVar(&noteURL, "url", "", "source page URL")
	addNoteCmd.Flags().StringVar(&noteTitle, "title", "", "source page title")
	addNoteCmd.Flags().StringVar(&noteLanguage, "lang", "", "language of the captured text")
	addNoteCmd.Flags().StringSliceVar(&noteTags, "tag", nil, "tag (repeatable)")

	addCardCmd.Flags().StringVar(&cardDeck, "deck", "", "deck id to file the card under")
	addCardCmd.Flags().StringVar(&cardExample, "example", "", "example sentence")
	addCardCmd.Flags().StringVar(&cardLanguage, "lang", "", "language of the card")
	addCardCmd.Flags().StringVar(&cardDifficulty, "difficulty", models.DifficultyIntermediate,
		"difficulty: "+strings.Join(models.ValidDifficulties(), ", "))

	addDeckCmd.Flags().StringVar(&deckDescription, "description", "", "deck description")
	addDeckCmd.Flags().StringVar(&deckLanguage, "lang", "", "language of the deck")

	addCmd.AddCommand(addNoteCmd)
	addCmd.AddCommand(addCardCmd)
	addCmd.AddCommand(addDeckCmd)
	addCmd.AddCommand(addPrefCmd)
}

// openMutator loads config, opens the cache store, and wires a mutator.
// The caller owns closing the returned database.
func openMutator(cmdName string) (*config.Config, *db.DB, *sync.Mutator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, trackCLIError(cmdName, fmt.Errorf("load config: %w", err))
	}
	if cfg.Remote.UserID == "" {
		return nil, nil, nil, trackCLIError(cmdName, errors.New("no user selected: set GLOTIAN_USER_ID"))
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, nil, nil, trackCLIError(cmdName, fmt.Errorf("initialize database: %w", err))
	}
	return cfg, database, sync.NewMutator(database), nil
}

func runAddNote(cmd *cobra.Command, args []string) error {
	cfg, database, mutator, err := openMutator("note")
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	now := time.Now().UTC()
	note := &models.Note{
		ID:          uuid.New().String(),
		UserID:      cfg.Remote.UserID,
		SourceURL:   noteURL,
		SourceTitle: noteTitle,
		Content:     args[0],
		Language:    noteLanguage,
		Tags:        strings.Join(noteTags, ","),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := mutator.SaveNote(note, models.ActionCapture); err != nil {
		return trackCLIError("note", fmt.Errorf("save note: %w", err))
	}

	fmt.Printf("Captured note %s (queued for sync).\n", note.ID)
	return nil
}

func runAddCard(cmd *cobra.Command, args []string) error {
	if !containsString(models.ValidDifficulties(), cardDifficulty) {
		return trackCLIError("card", fmt.Errorf("invalid difficulty %q (valid: %s)",
			cardDifficulty, strings.Join(models.ValidDifficulties(), ", ")))
	}

	cfg, database, mutator, err := openMutator("card")
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	now := time.Now().UTC()
	card := &models.Flashcard{
		ID:          uuid.New().String(),
		UserID:      cfg.Remote.UserID,
		DeckID:      cardDeck,
		Front:       args[0],
		Back:        args[1],
		Example:     cardExample,
		Language:    cardLanguage,
		Difficulty:  cardDifficulty,
		Proficiency: models.ProficiencyNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := mutator.SaveFlashcard(card); err != nil {
		return trackCLIError("card", fmt.Errorf("save flashcard: %w", err))
	}

	fmt.Printf("Created flashcard %s (queued for sync).\n", card.ID)
	return nil
}

func runAddDeck(cmd *cobra.Command, args []string) error {
	cfg, database, mutator, err := openMutator("deck")
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	now := time.Now().UTC()
	deck := &models.Deck{
		ID:          uuid.New().String(),
		UserID:      cfg.Remote.UserID,
		Name:        args[0],
		Description: deckDescription,
		Language:    deckLanguage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := mutator.SaveDeck(deck); err != nil {
		return trackCLIError("deck", fmt.Errorf("save deck: %w", err))
	}

	fmt.Printf("Created deck %s (queued for sync).\n", deck.ID)
	return nil
}

func runAddPref(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !containsString(models.ValidPreferenceKeys(), key) {
		return trackCLIError("pref", fmt.Errorf("unknown preference key %q (valid: %s)",
			key, strings.Join(models.ValidPreferenceKeys(), ", ")))
	}

	cfg, database, mutator, err := openMutator("pref")
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	now := time.Now().UTC()
	pref := &models.UserPreference{
		ID:        cfg.Remote.UserID + ":" + key,
		UserID:    cfg.Remote.UserID,
		Key:       key,
		Value:     args[1],
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := mutator.SavePreference(pref); err != nil {
		return trackCLIError("pref", fmt.Errorf("save preference: %w", err))
	}

	fmt.Printf("Set %s = %s (queued for sync).\n", key, args[1])
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
