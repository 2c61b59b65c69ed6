package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/platform/logger"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// Verify interface compliance at compile time
var _ ContentService = (*contentServiceImpl)(nil)

// txStores bundles the transaction-bound stores a content operation uses.
type txStores struct {
	topics    store.TopicStore
	decks     store.DeckStore
	cards     store.CardStore
	schedules store.ScheduleStore
}

// contentServiceImpl implements the ContentService interface.
type contentServiceImpl struct {
	db            *sql.DB
	topicStore    store.TopicStore
	deckStore     store.DeckStore
	cardStore     store.CardStore
	scheduleStore store.ScheduleStore
	logger        *slog.Logger
}

// NewContentService creates a new ContentService implementation.
// db may be nil, in which case operations run directly against the
// stores without an enclosing transaction (used by in-memory stores in
// tests).
func NewContentService(
	db *sql.DB,
	topicStore store.TopicStore,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	scheduleStore store.ScheduleStore,
	log *slog.Logger,
) ContentService {
	if topicStore == nil || deckStore == nil || cardStore == nil || scheduleStore == nil {
		panic("content service stores cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &contentServiceImpl{
		db:            db,
		topicStore:    topicStore,
		deckStore:     deckStore,
		cardStore:     cardStore,
		scheduleStore: scheduleStore,
		logger:        log.With(slog.String("component", "content_service")),
	}
}

// CreateTopic implements ContentService.CreateTopic.
func (s *contentServiceImpl) CreateTopic(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.Topic, error) {
	topic, err := domain.NewTopic(userID, name)
	if err != nil {
		return nil, err
	}

	if err := s.topicStore.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	return topic, nil
}

// CreateDeck implements ContentService.CreateDeck.
func (s *contentServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	input NewDeckInput,
) (*domain.Deck, error) {
	if _, err := s.topicStore.GetForUser(ctx, userID, input.TopicID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to load topic: %w", err)
	}

	deck, err := domain.NewDeck(
		input.TopicID, input.Name, input.Bidirectional, input.FrontLabel, input.BackLabel,
	)
	if err != nil {
		return nil, err
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	return deck, nil
}

// CreateCard implements ContentService.CreateCard.
//
// The card and its schedules are created in one transaction so a card
// can never exist without its forward schedule.
func (s *contentServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	input NewCardInput,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card *domain.Card
	err := s.runInTransaction(ctx, func(stores txStores) error {
		deck, err := stores.decks.GetForUser(ctx, userID, input.DeckID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrDeckNotFound
			}
			return fmt.Errorf("failed to load deck: %w", err)
		}

		card, err = domain.NewCard(
			input.DeckID, input.Front, input.Back, input.Note, input.Priority, input.Tags,
		)
		if err != nil {
			return err
		}

		if err := stores.cards.Create(ctx, card); err != nil {
			return fmt.Errorf("failed to create card: %w", err)
		}

		forward, err := domain.NewSchedule(card.ID, domain.DirectionForward)
		if err != nil {
			return err
		}
		if err := stores.schedules.Create(ctx, forward); err != nil {
			return fmt.Errorf("failed to create forward schedule: %w", err)
		}

		if deck.Bidirectional {
			reverse, err := domain.NewSchedule(card.ID, domain.DirectionReverse)
			if err != nil {
				return err
			}
			if err := stores.schedules.Create(ctx, reverse); err != nil {
				return fmt.Errorf("failed to create reverse schedule: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return nil, err
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", input.DeckID.String()))
		return nil, err
	}

	return card, nil
}

// SetDeckBidirectional implements ContentService.SetDeckBidirectional.
func (s *contentServiceImpl) SetDeckBidirectional(
	ctx context.Context,
	userID uuid.UUID,
	deckID uuid.UUID,
	bidirectional bool,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var backfilled int
	err := s.runInTransaction(ctx, func(stores txStores) error {
		if _, err := stores.decks.GetForUser(ctx, userID, deckID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrDeckNotFound
			}
			return fmt.Errorf("failed to load deck: %w", err)
		}

		if err := stores.decks.SetBidirectional(ctx, deckID, bidirectional); err != nil {
			return fmt.Errorf("failed to update deck: %w", err)
		}

		if bidirectional {
			created, err := stores.schedules.CreateMissingReverse(ctx, deckID)
			if err != nil {
				return fmt.Errorf("failed to backfill reverse schedules: %w", err)
			}
			backfilled = created
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return 0, err
		}
		log.Error("failed to toggle deck bidirectionality",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return 0, err
	}

	if bidirectional {
		log.Info("enabled bidirectional study",
			slog.String("deck_id", deckID.String()),
			slog.Int("backfilled", backfilled))
	}

	return backfilled, nil
}

// DeleteCard implements ContentService.DeleteCard.
func (s *contentServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := s.cardStore.GetForUser(ctx, userID, cardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCardNotFound
		}
		return fmt.Errorf("failed to load card: %w", err)
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCardNotFound
		}
		return fmt.Errorf("failed to delete card: %w", err)
	}

	return nil
}

// runInTransaction executes fn against transaction-bound stores when a
// database handle is present, or directly otherwise.
func (s *contentServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(stores txStores) error,
) error {
	if s.db == nil {
		return fn(txStores{
			topics:    s.topicStore,
			decks:     s.deckStore,
			cards:     s.cardStore,
			schedules: s.scheduleStore,
		})
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(txStores{
			topics:    s.topicStore.WithTx(tx),
			decks:     s.deckStore.WithTx(tx),
			cards:     s.cardStore.WithTx(tx),
			schedules: s.scheduleStore.WithTx(tx),
		})
	})
}
