package usecase

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
	"surplusmarket/pkg/logger"
)

const projectionConcurrency = 8

type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	ShopName string `json:"shop_name,omitempty"`
}

type MasterItemSummary struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type ListingSummary struct {
	ID           string             `json:"id"`
	MasterItemID string             `json:"master_item_id"`
	Price        float64            `json:"price"`
	Quantity     float64            `json:"quantity"`
	Unit         string             `json:"unit"`
	ImageURL     string             `json:"image_url,omitempty"`
	SellerID     string             `json:"seller_id,omitempty"`
	MasterItem   *MasterItemSummary `json:"master_item"`
	Seller       *UserSummary       `json:"seller,omitempty"`
}

type OrderView struct {
	*entity.Order
	UserRole   string             `json:"user_role"`
	Listing    *ListingSummary    `json:"listing"`
	MasterItem *MasterItemSummary `json:"master_item"`
	Buyer      *UserSummary       `json:"buyer"`
	Seller     *UserSummary       `json:"seller"`
}

type ChatView struct {
	*entity.Chat
	Listing          *ListingSummary `json:"listing"`
	OtherParticipant *UserSummary    `json:"other_participant"`
	UnreadCount      int             `json:"unread_count"`
}

type MessageView struct {
	*entity.Message
	Sender *UserSummary `json:"sender"`
}

type NotificationView struct {
	*entity.Notification
	Sender *UserSummary `json:"sender,omitempty"`
}

// Projector joins read models with listing, master item and user data.
// Lookups run concurrently; a missing or failing lookup becomes nil.
type Projector struct {
	userRepo       repository.UserRepository
	listingRepo    repository.ListingRepository
	masterItemRepo repository.MasterItemRepository
}

func NewProjector(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	masterItemRepo repository.MasterItemRepository,
) *Projector {
	return &Projector{
		userRepo:       userRepo,
		listingRepo:    listingRepo,
		masterItemRepo: masterItemRepo,
	}
}

// lookups collects the entities needed by one projection call.
type lookups struct {
	mu          sync.Mutex
	users       map[string]*entity.User
	listings    map[string]*entity.Listing
	masterItems map[string]*entity.MasterItem
}

func newLookups() *lookups {
	return &lookups{
		users:       make(map[string]*entity.User),
		listings:    make(map[string]*entity.Listing),
		masterItems: make(map[string]*entity.MasterItem),
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func logLookupError(kind, id string, err error) {
	if errors.Is(err, "NOT_FOUND") {
		logger.Debug("Projection: %s %s not found", kind, id)
		return
	}
	logger.Warn("Projection: failed to load %s %s: %v", kind, id, err)
}

func (p *Projector) loadUsers(ctx context.Context, l *lookups, ids []string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(projectionConcurrency)
	for _, id := range uniqueIDs(ids) {
		id := id
		g.Go(func() error {
			user, err := p.userRepo.GetByID(gctx, id)
			if err != nil {
				logLookupError("user", id, err)
				return nil
			}
			l.mu.Lock()
			l.users[id] = user
			l.mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// loadListings fetches listings and then their master items.
func (p *Projector) loadListings(ctx context.Context, l *lookups, ids []string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(projectionConcurrency)
	for _, id := range uniqueIDs(ids) {
		id := id
		g.Go(func() error {
			listing, err := p.listingRepo.GetByID(gctx, id)
			if err != nil {
				logLookupError("listing", id, err)
				return nil
			}
			l.mu.Lock()
			l.listings[id] = listing
			l.mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	itemIDs := make([]string, 0, len(l.listings))
	for _, listing := range l.listings {
		itemIDs = append(itemIDs, listing.MasterItemID)
	}
	p.loadMasterItems(ctx, l, itemIDs)
}

func (p *Projector) loadMasterItems(ctx context.Context, l *lookups, ids []string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(projectionConcurrency)
	for _, id := range uniqueIDs(ids) {
		id := id
		g.Go(func() error {
			item, err := p.masterItemRepo.GetByID(gctx, id)
			if err != nil {
				logLookupError("master item", id, err)
				return nil
			}
			l.mu.Lock()
			l.masterItems[id] = item
			l.mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

func (l *lookups) userSummary(id string) *UserSummary {
	user, ok := l.users[id]
	if !ok {
		return nil
	}
	return &UserSummary{
		ID:       user.ID,
		Name:     user.Name,
		ImageURL: user.ImageURL,
		ShopName: user.ShopName,
	}
}

func (l *lookups) masterItemSummary(id string) *MasterItemSummary {
	item, ok := l.masterItems[id]
	if !ok {
		return nil
	}
	return &MasterItemSummary{Name: item.Name, Category: item.Category}
}

func (l *lookups) listingSummary(id string) *ListingSummary {
	listing, ok := l.listings[id]
	if !ok {
		return nil
	}
	return &ListingSummary{
		ID:           listing.ID,
		MasterItemID: listing.MasterItemID,
		Price:        listing.Price,
		Quantity:     listing.Quantity,
		Unit:         listing.Unit,
		ImageURL:     listing.ImageURL,
		MasterItem:   l.masterItemSummary(listing.MasterItemID),
	}
}

// ProjectOrders enriches orders for viewerID, tagging each with the viewer's role.
func (p *Projector) ProjectOrders(ctx context.Context, viewerID string, orders []*entity.Order) []*OrderView {
	l := newLookups()

	userIDs := make([]string, 0, len(orders)*2)
	listingIDs := make([]string, 0, len(orders))
	itemIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		userIDs = append(userIDs, o.BuyerID, o.SellerID)
		listingIDs = append(listingIDs, o.ListingID)
		itemIDs = append(itemIDs, o.MasterItemID)
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); p.loadUsers(ctx, l, userIDs) }()
	go func() { defer wg.Done(); p.loadListings(ctx, l, listingIDs) }()
	go func() { defer wg.Done(); p.loadMasterItems(ctx, l, itemIDs) }()
	wg.Wait()

	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, &OrderView{
			Order:      o,
			UserRole:   o.RoleOf(viewerID),
			Listing:    l.listingSummary(o.ListingID),
			MasterItem: l.masterItemSummary(o.MasterItemID),
			Buyer:      l.userSummary(o.BuyerID),
			Seller:     l.userSummary(o.SellerID),
		})
	}
	return views
}

// ProjectChats builds chat list entries as seen by viewerID.
func (p *Projector) ProjectChats(ctx context.Context, viewerID string, chats []*entity.Chat) []*ChatView {
	l := newLookups()

	userIDs := make([]string, 0, len(chats))
	listingIDs := make([]string, 0, len(chats))
	for _, c := range chats {
		userIDs = append(userIDs, c.OtherParticipant(viewerID))
		listingIDs = append(listingIDs, c.ListingID)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); p.loadUsers(ctx, l, userIDs) }()
	go func() { defer wg.Done(); p.loadListings(ctx, l, listingIDs) }()
	wg.Wait()

	views := make([]*ChatView, 0, len(chats))
	for _, c := range chats {
		other := l.userSummary(c.OtherParticipant(viewerID))
		if other != nil {
			other.ShopName = ""
		}
		views = append(views, &ChatView{
			Chat:             c,
			Listing:          l.listingSummary(c.ListingID),
			OtherParticipant: other,
			UnreadCount:      c.UnreadFor(viewerID),
		})
	}
	return views
}

// ProjectChatDetail returns nil when the chat's listing no longer exists.
func (p *Projector) ProjectChatDetail(ctx context.Context, viewerID string, chat *entity.Chat) *ChatView {
	l := newLookups()
	p.loadListings(ctx, l, []string{chat.ListingID})

	listing := l.listingSummary(chat.ListingID)
	if listing == nil {
		return nil
	}
	listing.SellerID = l.listings[chat.ListingID].SellerID

	p.loadUsers(ctx, l, []string{listing.SellerID, chat.OtherParticipant(viewerID)})
	listing.Seller = l.userSummary(listing.SellerID)

	return &ChatView{
		Chat:             chat,
		Listing:          listing,
		OtherParticipant: l.userSummary(chat.OtherParticipant(viewerID)),
		UnreadCount:      chat.UnreadFor(viewerID),
	}
}

func (p *Projector) ProjectMessages(ctx context.Context, messages []*entity.Message) []*MessageView {
	l := newLookups()

	senderIDs := make([]string, 0, len(messages))
	for _, m := range messages {
		senderIDs = append(senderIDs, m.SenderID)
	}
	p.loadUsers(ctx, l, senderIDs)

	views := make([]*MessageView, 0, len(messages))
	for _, m := range messages {
		sender := l.userSummary(m.SenderID)
		if sender != nil {
			sender.ShopName = ""
		}
		views = append(views, &MessageView{Message: m, Sender: sender})
	}
	return views
}

func (p *Projector) ProjectNotifications(ctx context.Context, notifications []*entity.Notification) []*NotificationView {
	l := newLookups()

	senderIDs := make([]string, 0, len(notifications))
	for _, n := range notifications {
		senderIDs = append(senderIDs, n.SenderID)
	}
	p.loadUsers(ctx, l, senderIDs)

	views := make([]*NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, &NotificationView{Notification: n, Sender: l.userSummary(n.SenderID)})
	}
	return views
}

// itemName resolves a display name for a listing's master item.
func (p *Projector) itemName(ctx context.Context, masterItemID string) string {
	if masterItemID == "" {
		return defaultItemName
	}
	item, err := p.masterItemRepo.GetByID(ctx, masterItemID)
	if err != nil {
		logLookupError("master item", masterItemID, err)
		return defaultItemName
	}
	return item.Name
}
