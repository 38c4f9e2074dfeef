package auction

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// Tests ValidateListing
func TestValidateListing(t *testing.T) {
	longText := func(n int) string {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = 'x'
		}
		return string(buf)
	}

	valid := ListingInput{
		Title:      "Mountain bike",
		Category:   model.CategoryHobbies,
		Duration:   7,
		StartPrice: decimal.NewFromInt(100),
	}

	tests := []struct {
		name        string
		mutate      func(in *ListingInput)
		wrongFields []string
	}{
		{
			name:        "valid_input",
			mutate:      func(in *ListingInput) {},
			wrongFields: nil,
		},
		{
			name:        "empty_title",
			mutate:      func(in *ListingInput) { in.Title = "   " },
			wrongFields: []string{"title"},
		},
		{
			name:        "title_too_long",
			mutate:      func(in *ListingInput) { in.Title = longText(65) },
			wrongFields: []string{"title"},
		},
		{
			name:        "description_too_long",
			mutate:      func(in *ListingInput) { in.Description = longText(501) },
			wrongFields: []string{"description"},
		},
		{
			name:        "unknown_category",
			mutate:      func(in *ListingInput) { in.Category = "XYZ" },
			wrongFields: []string{"category"},
		},
		{
			name:        "unsupported_duration",
			mutate:      func(in *ListingInput) { in.Duration = 5 },
			wrongFields: []string{"duration"},
		},
		{
			name:        "negative_price",
			mutate:      func(in *ListingInput) { in.StartPrice = decimal.NewFromInt(-1) },
			wrongFields: []string{"price"},
		},
		{
			name: "multiple_fields",
			mutate: func(in *ListingInput) {
				in.Title = ""
				in.Duration = 2
			},
			wrongFields: []string{"title", "duration"},
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)

			fields := ValidateListing(input)

			require.Len(t, fields, len(tc.wrongFields))
			for _, field := range tc.wrongFields {
				require.Contains(t, fields, field)
			}
		})
	}
}

// Tests RefreshRemaining and EndDate
func TestRefreshRemaining(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name              string
		duration          int
		now               time.Time
		expectOpen        bool
		expectedRemaining string
	}{
		{
			name:              "open_mid_run",
			duration:          3,
			now:               created.Add(45*time.Hour + 56*time.Minute + 56*time.Second),
			expectOpen:        true,
			expectedRemaining: "26h3m4s",
		},
		{
			name:              "open_just_created",
			duration:          1,
			now:               created,
			expectOpen:        true,
			expectedRemaining: "24h0m0s",
		},
		{
			name:              "expired_exactly_at_end",
			duration:          1,
			now:               created.Add(24 * time.Hour),
			expectOpen:        false,
			expectedRemaining: "Ended",
		},
		{
			name:              "expired_long_ago",
			duration:          7,
			now:               created.Add(30 * 24 * time.Hour),
			expectOpen:        false,
			expectedRemaining: "Ended",
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			auction := model.Auction{CreationDate: created, Duration: tc.duration, Status: true}

			open := RefreshRemaining(&auction, tc.now)

			require.Equal(t, tc.expectOpen, open)
			require.Equal(t, tc.expectOpen, auction.Status)
			require.Equal(t, tc.expectedRemaining, auction.Remaining)
			require.Equal(t, created.Add(time.Duration(tc.duration)*24*time.Hour), EndDate(auction))
		})
	}
}

// Tests CreateAuction
func TestAuctionService_CreateAuction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockAuctionStore(ctrl)
	service := NewAuctionService(mockStore)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	service.clock = fixedClock(now)

	t.Run("valid_listing", func(t *testing.T) {
		mockStore.EXPECT().
			CreateAuction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, auction *model.Auction) error {
				auction.ID = 5
				return nil
			})

		created, err := service.CreateAuction(context.Background(), 1, ListingInput{
			Title:      "Mountain bike",
			Category:   model.CategoryHobbies,
			Duration:   3,
			StartPrice: decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		require.Equal(t, uint(5), created.ID)
		require.Equal(t, uint(1), created.OwnerID)
		require.Equal(t, now, created.CreationDate)
		require.Equal(t, model.DefaultImageURL, created.ImageURL)
		require.Equal(t, "72h0m0s", created.Remaining)
		require.True(t, created.Status)
	})

	t.Run("custom_image_is_kept", func(t *testing.T) {
		mockStore.EXPECT().
			CreateAuction(gomock.Any(), gomock.Any()).
			Return(nil)

		created, err := service.CreateAuction(context.Background(), 1, ListingInput{
			Title:      "Mountain bike",
			ImageURL:   "https://example.com/bike.png",
			Category:   model.CategoryHobbies,
			Duration:   3,
			StartPrice: decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		require.Equal(t, "https://example.com/bike.png", created.ImageURL)
	})

	t.Run("invalid_listing", func(t *testing.T) {
		_, err := service.CreateAuction(context.Background(), 1, ListingInput{
			Title:    "",
			Category: "XYZ",
			Duration: 2,
		})

		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrInvalidListing))

		var validation *ValidationError
		require.True(t, errors.As(err, &validation))
		require.Contains(t, validation.Fields, "title")
		require.Contains(t, validation.Fields, "category")
		require.Contains(t, validation.Fields, "duration")
	})
}

// Tests GetAuction lazy expiry
func TestAuctionService_GetAuction(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	winningBidID := uint(42)

	tests := []struct {
		name              string
		now               time.Time
		stored            model.Auction
		mockSetup         func(mockStore *repository.MockAuctionStore, stored model.Auction)
		expectOpen        bool
		expectedRemaining string
		expectedWinner    string
	}{
		{
			name: "open_auction_refreshes_remaining",
			now:  created.Add(24 * time.Hour),
			stored: model.Auction{
				ID: 1, CreationDate: created, Duration: 3, Status: true,
			},
			mockSetup: func(mockStore *repository.MockAuctionStore, stored model.Auction) {
				mockStore.EXPECT().GetAuction(gomock.Any(), uint(1)).Return(stored, nil)
				mockStore.EXPECT().SaveAuctionState(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectOpen:        true,
			expectedRemaining: "48h0m0s",
		},
		{
			name: "expired_with_bids_resolves_winner",
			now:  created.Add(8 * 24 * time.Hour),
			stored: model.Auction{
				ID: 1, CreationDate: created, Duration: 7, Status: true,
				WinningBidID: &winningBidID,
			},
			mockSetup: func(mockStore *repository.MockAuctionStore, stored model.Auction) {
				mockStore.EXPECT().GetAuction(gomock.Any(), uint(1)).Return(stored, nil)
				mockStore.EXPECT().GetWinningBid(gomock.Any(), uint(1)).Return(model.Bid{
					ID:     winningBidID,
					Bidder: model.User{ID: 3, Username: "bob"},
					Price:  decimal.NewFromInt(150),
				}, nil)
				mockStore.EXPECT().SaveAuctionState(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectOpen:        false,
			expectedRemaining: "Ended",
			expectedWinner:    "bob",
		},
		{
			name: "expired_without_bids_has_no_winner",
			now:  created.Add(8 * 24 * time.Hour),
			stored: model.Auction{
				ID: 1, CreationDate: created, Duration: 7, Status: true,
			},
			mockSetup: func(mockStore *repository.MockAuctionStore, stored model.Auction) {
				mockStore.EXPECT().GetAuction(gomock.Any(), uint(1)).Return(stored, nil)
				mockStore.EXPECT().SaveAuctionState(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectOpen:        false,
			expectedRemaining: "Ended",
		},
		{
			name: "already_closed_is_left_alone",
			now:  created.Add(8 * 24 * time.Hour),
			stored: model.Auction{
				ID: 1, CreationDate: created, Duration: 7, Status: false,
				Remaining: "Ended", Winner: "bob", WinningBidID: &winningBidID,
			},
			mockSetup: func(mockStore *repository.MockAuctionStore, stored model.Auction) {
				mockStore.EXPECT().GetAuction(gomock.Any(), uint(1)).Return(stored, nil)
			},
			expectOpen:        false,
			expectedRemaining: "Ended",
			expectedWinner:    "bob",
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := repository.NewMockAuctionStore(ctrl)
			service := NewAuctionService(mockStore)
			service.clock = fixedClock(tc.now)

			tc.mockSetup(mockStore, tc.stored)

			auction, err := service.GetAuction(context.Background(), 1)

			require.NoError(t, err)
			require.Equal(t, tc.expectOpen, auction.Status)
			require.Equal(t, tc.expectedRemaining, auction.Remaining)
			require.Equal(t, tc.expectedWinner, auction.Winner)
		})
	}
}

// Tests CloseAuction
func TestAuctionService_CloseAuction(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	winningBidID := uint(42)

	t.Run("owner_closes_with_winner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := repository.NewMockAuctionStore(ctrl)
		service := NewAuctionService(mockStore)
		service.clock = fixedClock(created.Add(time.Hour))

		mockStore.EXPECT().GetAuction(gomock.Any(), uint(1)).Return(model.Auction{
			ID: 1, OwnerID: 1, CreationDate: created, Duration: 7, Status: true,
			WinningBidID: &winningBidID,
		}, nil)
		mockStore.EXPECT().GetWinningBid(gomock.Any(), uint(1)).Return(model.Bid{
			ID:     winningBidID,
			Bidder: model.User{Username: "bob"},
		}, nil)
		mockStore.EXPECT().
			SaveAuctionState(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, auction *model.Auction) error {
				require.False(t, auction.Status)
				require.Equal(t, "Ended", auction.Remaining)
				require.Equal(t, "bob", auction.Winner)
				return nil
			})

		require.NoError(t, service.CloseAuction(context.Background(), 1, 1))
	})

	t.Run("owner_closes_without_bids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := repository.NewMockAuctionStore(ctrl)
		service := NewAuctionService(mockStore)

		mockStore.EXPECT().GetAuction(gomock.Any(), uint(1)).Return(model.Auction{
			ID: 1, OwnerID: 1, CreationDate: created, Duration: 7, Status: true,
		}, nil)
		mockStore.EXPECT().
			SaveAuctionState(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, auction *model.Auction) error {
				require.False(t, auction.Status)
				require.Empty(t, auction.Winner)
				return nil
			})

		require.NoError(t, service.CloseAuction(context.Background(), 1, 1))
	})

	t.Run("non_owner_is_rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := repository.NewMockAuctionStore(ctrl)
		service := NewAuctionService(mockStore)

		mockStore.EXPECT().GetAuction(gomock.Any(), uint(1)).Return(model.Auction{
			ID: 1, OwnerID: 1, CreationDate: created, Duration: 7, Status: true,
		}, nil)

		err := service.CloseAuction(context.Background(), 1, 99)

		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrNotOwner))
	})

	t.Run("missing_auction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := repository.NewMockAuctionStore(ctrl)
		service := NewAuctionService(mockStore)

		mockStore.EXPECT().GetAuction(gomock.Any(), uint(9)).Return(model.Auction{}, auctionerrors.ErrAuctionNotFound)

		err := service.CloseAuction(context.Background(), 9, 1)

		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
	})
}

// Tests ListByCategory
func TestAuctionService_ListByCategory(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("known_category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := repository.NewMockAuctionStore(ctrl)
		service := NewAuctionService(mockStore)
		service.clock = fixedClock(created.Add(time.Hour))

		mockStore.EXPECT().ListAuctionsByCategory(gomock.Any(), model.CategoryIT).Return([]model.Auction{
			{ID: 1, CreationDate: created, Duration: 7, Status: true, Category: model.CategoryIT},
		}, nil)
		mockStore.EXPECT().SaveAuctionState(gomock.Any(), gomock.Any()).Return(nil)

		auctions, label, err := service.ListByCategory(context.Background(), model.CategoryIT)

		require.NoError(t, err)
		require.Len(t, auctions, 1)
		require.Equal(t, "Laptop, Desktop, Mobile Phone", label)
	})

	t.Run("unknown_category_yields_empty_result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := repository.NewMockAuctionStore(ctrl)
		service := NewAuctionService(mockStore)

		auctions, label, err := service.ListByCategory(context.Background(), "NOPE")

		require.NoError(t, err)
		require.Empty(t, auctions)
		require.NotNil(t, auctions)
		require.Empty(t, label)
	})
}

// Tests AddComment
func TestAuctionService_AddComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockAuctionStore(ctrl)
	service := NewAuctionService(mockStore)

	t.Run("default_title", func(t *testing.T) {
		mockStore.EXPECT().
			AddComment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, comment *model.Comment) error {
				comment.ID = 3
				return nil
			})

		comment, err := service.AddComment(context.Background(), 1, 2, "", "Is shipping included?")

		require.NoError(t, err)
		require.Equal(t, uint(3), comment.ID)
		require.Equal(t, "New comment", comment.Title)
		require.Equal(t, "Is shipping included?", comment.Content)
	})

	t.Run("custom_title", func(t *testing.T) {
		mockStore.EXPECT().AddComment(gomock.Any(), gomock.Any()).Return(nil)

		comment, err := service.AddComment(context.Background(), 1, 2, "Question", "Is shipping included?")

		require.NoError(t, err)
		require.Equal(t, "Question", comment.Title)
	})

	t.Run("empty_content", func(t *testing.T) {
		_, err := service.AddComment(context.Background(), 1, 2, "Question", "   ")

		require.Error(t, err)
		require.True(t, errors.Is(err, auctionerrors.ErrInvalidListing))
	})
}

// Tests ToggleWatchlist and WatchLabel
func TestAuctionService_Watchlist(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := repository.NewMockAuctionStore(ctrl)
	service := NewAuctionService(mockStore)

	t.Run("toggle_on", func(t *testing.T) {
		mockStore.EXPECT().IsWatching(gomock.Any(), uint(2), uint(1)).Return(false, nil)
		mockStore.EXPECT().AddToWatchlist(gomock.Any(), uint(2), uint(1)).Return(nil)

		label, err := service.ToggleWatchlist(context.Background(), 2, 1)

		require.NoError(t, err)
		require.Equal(t, WatchLabelRemove, label)
	})

	t.Run("toggle_off", func(t *testing.T) {
		mockStore.EXPECT().IsWatching(gomock.Any(), uint(2), uint(1)).Return(true, nil)
		mockStore.EXPECT().RemoveFromWatchlist(gomock.Any(), uint(2), uint(1)).Return(nil)

		label, err := service.ToggleWatchlist(context.Background(), 2, 1)

		require.NoError(t, err)
		require.Equal(t, WatchLabelAdd, label)
	})

	t.Run("label_when_watching", func(t *testing.T) {
		mockStore.EXPECT().IsWatching(gomock.Any(), uint(2), uint(1)).Return(true, nil)

		label, err := service.WatchLabel(context.Background(), 2, 1)

		require.NoError(t, err)
		require.Equal(t, WatchLabelRemove, label)
	})

	t.Run("label_when_not_watching", func(t *testing.T) {
		mockStore.EXPECT().IsWatching(gomock.Any(), uint(2), uint(1)).Return(false, nil)

		label, err := service.WatchLabel(context.Background(), 2, 1)

		require.NoError(t, err)
		require.Equal(t, WatchLabelAdd, label)
	})

	t.Run("count", func(t *testing.T) {
		mockStore.EXPECT().CountWatchedAuctions(gomock.Any(), uint(2)).Return(int64(4), nil)

		count, err := service.WatchlistCount(context.Background(), 2)

		require.NoError(t, err)
		require.Equal(t, int64(4), count)
	})
}
