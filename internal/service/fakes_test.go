package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/maple-advisory/crm-backend/internal/repository"
)

// Fake repositories for service tests. Each method delegates to an optional
// func field; the zero value behaves like an empty store.

type fakeLeadRepo struct {
	createFn               func(context.Context, *repository.Lead) error
	findByIDFn             func(context.Context, string) (*repository.Lead, error)
	findAllActiveFn        func(context.Context) ([]*repository.Lead, error)
	updateFn               func(context.Context, *repository.Lead) error
	deleteFn               func(context.Context, string) error
	markConvertedFn        func(context.Context, string, string) error
	clearConvertedClientFn func(context.Context, string) error
	statsByOwnerFn         func(context.Context, string) (*repository.LeadStats, error)
}

func (f *fakeLeadRepo) Create(ctx context.Context, lead *repository.Lead) error {
	if f.createFn != nil {
		return f.createFn(ctx, lead)
	}
	if lead.ID == "" {
		lead.ID = "lead-1"
	}
	return nil
}
func (f *fakeLeadRepo) FindByID(ctx context.Context, id string) (*repository.Lead, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeLeadRepo) FindAllActive(ctx context.Context) ([]*repository.Lead, error) {
	if f.findAllActiveFn != nil {
		return f.findAllActiveFn(ctx)
	}
	return nil, nil
}
func (f *fakeLeadRepo) FindByConvertedClientID(context.Context, string) ([]*repository.Lead, error) {
	return nil, nil
}
func (f *fakeLeadRepo) Update(ctx context.Context, lead *repository.Lead) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lead)
	}
	return nil
}
func (f *fakeLeadRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeLeadRepo) MarkConverted(ctx context.Context, leadID, clientID string) error {
	if f.markConvertedFn != nil {
		return f.markConvertedFn(ctx, leadID, clientID)
	}
	return nil
}
func (f *fakeLeadRepo) ClearConvertedClient(ctx context.Context, clientID string) error {
	if f.clearConvertedClientFn != nil {
		return f.clearConvertedClientFn(ctx, clientID)
	}
	return nil
}
func (f *fakeLeadRepo) StatsByOwner(ctx context.Context, ownerID string) (*repository.LeadStats, error) {
	if f.statsByOwnerFn != nil {
		return f.statsByOwnerFn(ctx, ownerID)
	}
	return &repository.LeadStats{ByStatus: map[string]int{}}, nil
}

type fakeClientRepo struct {
	createFn        func(context.Context, *repository.Client) error
	findByIDFn      func(context.Context, string) (*repository.Client, error)
	findAllActiveFn func(context.Context) ([]*repository.Client, error)
	updateFn        func(context.Context, *repository.Client) error
	deleteFn        func(context.Context, string) error
}

func (f *fakeClientRepo) Create(ctx context.Context, client *repository.Client) error {
	if f.createFn != nil {
		return f.createFn(ctx, client)
	}
	if client.ID == "" {
		client.ID = "client-1"
	}
	return nil
}
func (f *fakeClientRepo) FindByID(ctx context.Context, id string) (*repository.Client, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeClientRepo) FindAllActive(ctx context.Context) ([]*repository.Client, error) {
	if f.findAllActiveFn != nil {
		return f.findAllActiveFn(ctx)
	}
	return nil, nil
}
func (f *fakeClientRepo) Update(ctx context.Context, client *repository.Client) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, client)
	}
	return nil
}
func (f *fakeClientRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeUserRepo struct {
	createFn      func(context.Context, *repository.User) error
	findByIDFn    func(context.Context, string) (*repository.User, error)
	findByEmailFn func(context.Context, string) (*repository.User, error)
	findAllFn     func(context.Context) ([]*repository.User, error)
	deleteFn      func(context.Context, string) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *repository.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	if user.ID == "" {
		user.ID = "user-1"
	}
	return nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (f *fakeUserRepo) FindByUsername(context.Context, string) (*repository.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindAll(ctx context.Context) ([]*repository.User, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}
func (f *fakeUserRepo) Update(context.Context, *repository.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeUserRepo) SaveRefreshToken(context.Context, *repository.RefreshToken) error {
	return nil
}
func (f *fakeUserRepo) FindRefreshToken(context.Context, string) (*repository.RefreshToken, error) {
	return nil, nil
}
func (f *fakeUserRepo) DeleteRefreshToken(context.Context, string) error      { return nil }
func (f *fakeUserRepo) DeleteUserRefreshTokens(context.Context, string) error { return nil }

type fakeCommentRepo struct {
	createFn         func(context.Context, *repository.Comment) error
	findByIDFn       func(context.Context, string) (*repository.Comment, error)
	findByEntityFn   func(context.Context, string) ([]*repository.Comment, error)
	deleteFn         func(context.Context, string) error
	deleteByEntityFn func(context.Context, string) error
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *repository.Comment) error {
	if f.createFn != nil {
		return f.createFn(ctx, comment)
	}
	if comment.ID == "" {
		comment.ID = "comment-1"
	}
	return nil
}
func (f *fakeCommentRepo) FindByID(ctx context.Context, id string) (*repository.Comment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeCommentRepo) FindByEntity(ctx context.Context, entityID string) ([]*repository.Comment, error) {
	if f.findByEntityFn != nil {
		return f.findByEntityFn(ctx, entityID)
	}
	return nil, nil
}
func (f *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeCommentRepo) DeleteByEntity(ctx context.Context, entityID string) error {
	if f.deleteByEntityFn != nil {
		return f.deleteByEntityFn(ctx, entityID)
	}
	return nil
}

type fakeProjectRepo struct {
	createFn                 func(context.Context, *repository.Project) error
	findByIDFn               func(context.Context, string) (*repository.Project, error)
	findAllFn                func(context.Context) ([]*repository.Project, error)
	updateFn                 func(context.Context, *repository.Project) error
	deleteFn                 func(context.Context, string) error
	deleteMembersByProjectFn func(context.Context, string) error
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *repository.Project) error {
	if f.createFn != nil {
		return f.createFn(ctx, project)
	}
	if project.ID == "" {
		project.ID = "project-1"
	}
	return nil
}
func (f *fakeProjectRepo) FindByID(ctx context.Context, id string) (*repository.Project, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeProjectRepo) FindAll(ctx context.Context) ([]*repository.Project, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}
func (f *fakeProjectRepo) FindOverdue(context.Context) ([]*repository.Project, error) {
	return nil, nil
}
func (f *fakeProjectRepo) Update(ctx context.Context, project *repository.Project) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, project)
	}
	return nil
}
func (f *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}
func (f *fakeProjectRepo) AddMember(context.Context, *repository.ProjectMember) error { return nil }
func (f *fakeProjectRepo) FindMembers(context.Context, string) ([]*repository.ProjectMember, error) {
	return nil, nil
}
func (f *fakeProjectRepo) RemoveMember(context.Context, string, string) error { return nil }
func (f *fakeProjectRepo) DeleteMembersByProject(ctx context.Context, projectID string) error {
	if f.deleteMembersByProjectFn != nil {
		return f.deleteMembersByProjectFn(ctx, projectID)
	}
	return nil
}

type fakeFundRepo struct {
	createFn     func(context.Context, *repository.FundTracker) error
	bulkCreateFn func(context.Context, []*repository.FundTracker) (int, error)
	findByIDFn   func(context.Context, string) (*repository.FundTracker, error)
	findByNameFn func(context.Context, string) (*repository.FundTracker, error)
	updateFn     func(context.Context, *repository.FundTracker) error
}

func (f *fakeFundRepo) Create(ctx context.Context, fund *repository.FundTracker) error {
	if f.createFn != nil {
		return f.createFn(ctx, fund)
	}
	if fund.ID == "" {
		fund.ID = "fund-1"
	}
	return nil
}
func (f *fakeFundRepo) BulkCreate(ctx context.Context, funds []*repository.FundTracker) (int, error) {
	if f.bulkCreateFn != nil {
		return f.bulkCreateFn(ctx, funds)
	}
	return len(funds), nil
}
func (f *fakeFundRepo) FindByID(ctx context.Context, id string) (*repository.FundTracker, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeFundRepo) FindAll(context.Context) ([]*repository.FundTracker, error) {
	return nil, nil
}
func (f *fakeFundRepo) FindByName(ctx context.Context, name string) (*repository.FundTracker, error) {
	if f.findByNameFn != nil {
		return f.findByNameFn(ctx, name)
	}
	return nil, nil
}
func (f *fakeFundRepo) Update(ctx context.Context, fund *repository.FundTracker) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, fund)
	}
	return nil
}
func (f *fakeFundRepo) Delete(context.Context, string) error { return nil }

type fakeMasterDataRepo struct {
	createFn     func(context.Context, *repository.ClientMasterData) error
	bulkCreateFn func(context.Context, []*repository.ClientMasterData) (int, error)
	findByIDFn   func(context.Context, string) (*repository.ClientMasterData, error)
	findAllFn    func(context.Context) ([]*repository.ClientMasterData, error)
	findByNameFn func(context.Context, string) (*repository.ClientMasterData, error)
	updateFn     func(context.Context, *repository.ClientMasterData) error
	deleteFn     func(context.Context, string) error
}

func (f *fakeMasterDataRepo) Create(ctx context.Context, entry *repository.ClientMasterData) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	if entry.ID == "" {
		entry.ID = "md-1"
	}
	return nil
}
func (f *fakeMasterDataRepo) BulkCreate(ctx context.Context, entries []*repository.ClientMasterData) (int, error) {
	if f.bulkCreateFn != nil {
		return f.bulkCreateFn(ctx, entries)
	}
	return len(entries), nil
}
func (f *fakeMasterDataRepo) FindByID(ctx context.Context, id string) (*repository.ClientMasterData, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeMasterDataRepo) FindAll(ctx context.Context) ([]*repository.ClientMasterData, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}
func (f *fakeMasterDataRepo) FindByName(ctx context.Context, name string) (*repository.ClientMasterData, error) {
	if f.findByNameFn != nil {
		return f.findByNameFn(ctx, name)
	}
	return nil, nil
}
func (f *fakeMasterDataRepo) Update(ctx context.Context, entry *repository.ClientMasterData) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, entry)
	}
	return nil
}
func (f *fakeMasterDataRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakePermissionRepo struct {
	upsertFn     func(context.Context, *repository.MasterDataPermission) error
	findByUserFn func(context.Context, string) (*repository.MasterDataPermission, error)
	findAllFn    func(context.Context) ([]*repository.MasterDataPermission, error)
	updateFn     func(context.Context, *repository.MasterDataPermission) error
}

func (f *fakePermissionRepo) Upsert(ctx context.Context, perm *repository.MasterDataPermission) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, perm)
	}
	return nil
}
func (f *fakePermissionRepo) FindByUser(ctx context.Context, userID string) (*repository.MasterDataPermission, error) {
	if f.findByUserFn != nil {
		return f.findByUserFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakePermissionRepo) FindAll(ctx context.Context) ([]*repository.MasterDataPermission, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}
func (f *fakePermissionRepo) Update(ctx context.Context, perm *repository.MasterDataPermission) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, perm)
	}
	return nil
}

type fakeBotMappingRepo struct {
	upsertFn             func(context.Context, *repository.BotUserMapping) error
	findByPlatformUserFn func(context.Context, string, string) (*repository.BotUserMapping, error)
	deactivateFn         func(context.Context, string, string) error
}

func (f *fakeBotMappingRepo) Upsert(ctx context.Context, mapping *repository.BotUserMapping) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, mapping)
	}
	return nil
}
func (f *fakeBotMappingRepo) FindByPlatformUser(ctx context.Context, platform, platformUserID string) (*repository.BotUserMapping, error) {
	if f.findByPlatformUserFn != nil {
		return f.findByPlatformUserFn(ctx, platform, platformUserID)
	}
	return nil, nil
}
func (f *fakeBotMappingRepo) Deactivate(ctx context.Context, platform, platformUserID string) error {
	if f.deactivateFn != nil {
		return f.deactivateFn(ctx, platform, platformUserID)
	}
	return nil
}

// fakeStatsCache is an in-memory StatsCache. Values round-trip through JSON
// the way the Redis-backed cache does.
type fakeStatsCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: map[string][]byte{}}
}

func (f *fakeStatsCache) GetCache(_ context.Context, key string, dest interface{}) error {
	f.gets++
	data, ok := f.entries[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeStatsCache) SetCache(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.sets++
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeStatsCache) InvalidateCache(_ context.Context, pattern string) error {
	delete(f.entries, pattern)
	return nil
}

// fakeBroadcaster records the events a service emits.
type fakeBroadcaster struct {
	events []string
}

func (f *fakeBroadcaster) BroadcastLeadCreated(lead map[string]interface{}) {
	f.events = append(f.events, "lead:created:"+str(lead["id"]))
}
func (f *fakeBroadcaster) BroadcastLeadUpdated(lead map[string]interface{}) {
	f.events = append(f.events, "lead:updated:"+str(lead["id"]))
}
func (f *fakeBroadcaster) BroadcastLeadDeleted(leadID string) {
	f.events = append(f.events, "lead:deleted:"+leadID)
}
func (f *fakeBroadcaster) BroadcastLeadConverted(leadID, clientID string) {
	f.events = append(f.events, "lead:converted:"+leadID+":"+clientID)
}
func (f *fakeBroadcaster) BroadcastClientUpdated(client map[string]interface{}) {
	f.events = append(f.events, "client:updated:"+str(client["id"]))
}
func (f *fakeBroadcaster) BroadcastCommentAdded(entityType, entityID string, _ map[string]interface{}) {
	f.events = append(f.events, "comment:added:"+entityType+":"+entityID)
}
func (f *fakeBroadcaster) SendPermissionApproved(userID string) {
	f.events = append(f.events, "permission:approved:"+userID)
}
func (f *fakeBroadcaster) SendPermissionRevoked(userID string) {
	f.events = append(f.events, "permission:revoked:"+userID)
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func timePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }
