package repositories

// Store 各数据表仓库的集合，共享同一个存储后端
type Store struct {
	Backend       Backend
	Events        *EventRepository
	Stations      *StationRepository
	Participants  *ParticipantRepository
	Photos        *PhotoRepository
	Users         *UserRepository
	AppUsers      *AppUserRepository
	IdentityLinks *IdentityLinkRepository
}

// NewStore 创建仓库集合
func NewStore(backend Backend) *Store {
	return &Store{
		Backend:       backend,
		Events:        NewEventRepository(backend),
		Stations:      NewStationRepository(backend),
		Participants:  NewParticipantRepository(backend),
		Photos:        NewPhotoRepository(backend),
		Users:         NewUserRepository(backend),
		AppUsers:      NewAppUserRepository(backend),
		IdentityLinks: NewIdentityLinkRepository(backend),
	}
}
