package enum

type EntityType string

const (
	DOMAIN EntityType = "DOMAIN"
)

func (entityType EntityType) String() string {
	return string(entityType)
}

func GetEntityType(s string) EntityType {
	return EntityType(s)
}
