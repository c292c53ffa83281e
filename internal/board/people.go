package board

import (
	"slices"
	"strings"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

type AddPersonParams struct {
	Name       string
	Color      string
	Email      string
	Role       string
	Department string
}

const defaultPersonColor = "#6b7280"

// AddPerson adds a team member. Names are unique, ignoring case, because
// the extended member record is keyed by name.
func (b *Board) AddPerson(params AddPersonParams) (*models.Person, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ValidationError{Field: "name", Reason: "must not be empty"}
	}
	for _, p := range b.people {
		if strings.EqualFold(p.Name, name) {
			return nil, ValidationError{Field: "name", Reason: "already taken"}
		}
	}

	id, err := b.newID()
	if err != nil {
		b.logger.Error().
			Err(err).
			Msg("failed to generate person id")
		return nil, err
	}

	p := &models.Person{
		ID:         id,
		Name:       name,
		Color:      params.Color,
		Email:      params.Email,
		Role:       params.Role,
		Department: params.Department,
		CreatedAt:  b.now(),
	}
	if p.Color == "" {
		p.Color = defaultPersonColor
	}

	b.people[p.ID] = p
	b.publish(persist.Job{Op: persist.OpSavePerson, ID: p.ID, Person: p.Clone()})
	b.logger.Info().
		Str("person_id", p.ID).
		Msg("created person")
	return p.Clone(), nil
}

// DeletePerson removes a team member. Tasks delegated to them stay
// delegated with a dangling person id.
func (b *Board) DeletePerson(personID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.people[personID]; !ok {
		return NotFoundError{Kind: "person", ID: personID}
	}

	delete(b.people, personID)
	b.publish(persist.Job{Op: persist.OpDeletePerson, ID: personID})
	b.logger.Info().
		Str("person_id", personID).
		Msg("deleted person")
	return nil
}

func (b *Board) Person(personID string) (*models.Person, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.people[personID]
	if !ok {
		return nil, NotFoundError{Kind: "person", ID: personID}
	}
	return p.Clone(), nil
}

// PersonByName finds a team member by name, ignoring case.
func (b *Board) PersonByName(name string) (*models.Person, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name = strings.TrimSpace(name)
	for _, p := range b.people {
		if strings.EqualFold(p.Name, name) {
			return p.Clone(), nil
		}
	}
	return nil, NotFoundError{Kind: "person", ID: name}
}

func (b *Board) People() []*models.Person {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sortedPeople()
}

func (b *Board) sortedPeople() []*models.Person {
	people := make([]*models.Person, 0, len(b.people))
	for _, p := range b.people {
		people = append(people, p.Clone())
	}
	slices.SortFunc(people, func(x, y *models.Person) int {
		if c := strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name)); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})
	return people
}
