// Package scrape collects business listings from the Google Places API
// according to a search plan: a set of localized queries fanned out over
// biased city-center circles.
package scrape

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Location is one circle bias for a text search.
type Location struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	RadiusKM  float64 `yaml:"radius_km"`
}

// Region groups locations that share a query set, typically a country so the
// queries can be localized.
type Region struct {
	Name      string     `yaml:"name"`
	Queries   []string   `yaml:"queries"`
	Locations []Location `yaml:"locations"`
}

// Plan is a full scrape campaign.
type Plan struct {
	Name    string   `yaml:"name"`
	Source  string   `yaml:"source"`
	Regions []Region `yaml:"regions"`
}

// Search is one query/location pair, the unit of work for the engine.
type Search struct {
	Region   string
	Query    string
	Location Location
}

// Searches expands the plan into the cross product of each region's queries
// and locations, in declaration order.
func (p *Plan) Searches() []Search {
	var out []Search
	for _, r := range p.Regions {
		for _, q := range r.Queries {
			for _, loc := range r.Locations {
				out = append(out, Search{Region: r.Name, Query: q, Location: loc})
			}
		}
	}
	return out
}

// Validate checks the plan is runnable.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return eris.New("plan: missing name")
	}
	if len(p.Regions) == 0 {
		return eris.Errorf("plan %s: no regions", p.Name)
	}
	for _, r := range p.Regions {
		if len(r.Queries) == 0 {
			return eris.Errorf("plan %s: region %s has no queries", p.Name, r.Name)
		}
		if len(r.Locations) == 0 {
			return eris.Errorf("plan %s: region %s has no locations", p.Name, r.Name)
		}
		for _, loc := range r.Locations {
			if loc.Name == "" {
				return eris.Errorf("plan %s: region %s has an unnamed location", p.Name, r.Name)
			}
			if loc.RadiusKM <= 0 {
				return eris.Errorf("plan %s: location %s has no radius", p.Name, loc.Name)
			}
		}
	}
	return nil
}

// LoadPlan reads a campaign plan from a YAML file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "plan: read %s", path)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "plan: parse %s", path)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// DefaultPlan returns a built-in campaign plan by name, or an error listing
// nothing when the name is unknown.
func DefaultPlan(name string) (*Plan, error) {
	switch name {
	case "horeca", "":
		return horecaPlan(), nil
	case "warehouse":
		return warehousePlan(), nil
	}
	return nil, eris.Errorf("plan: no built-in plan %q", name)
}

// horecaPlan targets Asian-food HORECA distributors across 28 cities in
// three countries, with query sets localized per country and radius tiered
// by city size.
func horecaPlan() *Plan {
	return &Plan{
		Name:   "horeca",
		Source: "google_maps_textsearch",
		Regions: []Region{
			{
				Name: "Germany",
				Queries: []string{
					"Vietnamesische Lebensmittel Großhandel",
					"Chinesischer Lebensmittel Großhandel",
					"Asiatischer Tiefkühlkost Großhandel HORECA",
					"Frozen duck importer HORECA",
				},
				Locations: []Location{
					{Name: "Berlin", Latitude: 52.52, Longitude: 13.40, RadiusKM: 30},
					{Name: "Hamburg", Latitude: 53.55, Longitude: 10.00, RadiusKM: 30},
					{Name: "Munich", Latitude: 48.14, Longitude: 11.58, RadiusKM: 30},
					{Name: "Cologne", Latitude: 50.94, Longitude: 6.96, RadiusKM: 30},
					{Name: "Frankfurt", Latitude: 50.11, Longitude: 8.68, RadiusKM: 25},
					{Name: "Stuttgart", Latitude: 48.78, Longitude: 9.18, RadiusKM: 25},
					{Name: "Düsseldorf", Latitude: 51.22, Longitude: 6.78, RadiusKM: 25},
					{Name: "Leipzig", Latitude: 51.34, Longitude: 12.37, RadiusKM: 25},
					{Name: "Nuremberg", Latitude: 49.45, Longitude: 11.08, RadiusKM: 20},
					{Name: "Hanover", Latitude: 52.37, Longitude: 9.73, RadiusKM: 20},
					{Name: "Bremen", Latitude: 53.07, Longitude: 8.81, RadiusKM: 20},
				},
			},
			{
				Name: "Spain",
				Queries: []string{
					"Distribuidor comida vietnamita",
					"Importador alimentos chinos congelados",
					"Mayorista comida asiática HORECA",
					"Frozen poultry distributor",
				},
				Locations: []Location{
					{Name: "Barcelona", Latitude: 41.39, Longitude: 2.17, RadiusKM: 30},
					{Name: "Madrid", Latitude: 40.42, Longitude: -3.70, RadiusKM: 30},
					{Name: "Valencia", Latitude: 39.47, Longitude: -0.38, RadiusKM: 25},
					{Name: "Seville", Latitude: 37.39, Longitude: -5.98, RadiusKM: 25},
					{Name: "Bilbao", Latitude: 43.26, Longitude: -2.92, RadiusKM: 25},
					{Name: "Malaga", Latitude: 36.72, Longitude: -4.42, RadiusKM: 20},
					{Name: "Palma", Latitude: 39.57, Longitude: 2.65, RadiusKM: 20},
					{Name: "Zaragoza", Latitude: 41.65, Longitude: -0.88, RadiusKM: 20},
				},
			},
			{
				Name: "France",
				Queries: []string{
					"Grossiste alimentation vietnamienne",
					"Distributeur aliments chinois surgelés",
					"Fournisseur restaurant asiatique HORECA",
					"Distributeur volaille surgelée",
				},
				Locations: []Location{
					{Name: "Paris", Latitude: 48.86, Longitude: 2.35, RadiusKM: 30},
					{Name: "Lyon", Latitude: 45.76, Longitude: 4.84, RadiusKM: 30},
					{Name: "Marseille", Latitude: 43.30, Longitude: 5.37, RadiusKM: 25},
					{Name: "Toulouse", Latitude: 43.60, Longitude: 1.44, RadiusKM: 25},
					{Name: "Nice", Latitude: 43.70, Longitude: 7.26, RadiusKM: 20},
					{Name: "Bordeaux", Latitude: 44.84, Longitude: -0.58, RadiusKM: 20},
					{Name: "Lille", Latitude: 50.63, Longitude: 3.06, RadiusKM: 20},
					{Name: "Strasbourg", Latitude: 48.58, Longitude: 7.75, RadiusKM: 20},
					{Name: "Nantes", Latitude: 47.22, Longitude: -1.55, RadiusKM: 20},
				},
			},
		},
	}
}

// warehousePlan targets cold-storage warehouse capacity in
// Nordrhein-Westfalen, centered on its logistics hubs.
func warehousePlan() *Plan {
	return &Plan{
		Name:   "warehouse",
		Source: "google_maps_textsearch",
		Regions: []Region{
			{
				Name: "Nordrhein-Westfalen",
				Queries: []string{
					"Tiefkühlkost Lager Nordrhein-Westfalen",
					"Kühlhaus Palettenplätze NRW",
					"Kaltlager Logistikzentrum NRW",
					"Tiefkühlkost Logistik NRW",
					"Kühlhaus 150 Paletten NRW",
					"Frostlager Duisburg",
					"Kühlhaus Köln",
					"Logistikzentrum Düsseldorf Tiefkühl",
					"frozen food warehouse NRW",
					"cold storage logistics NRW",
					"pallet spaces warehouse NRW",
					"temperature controlled warehouse NRW",
				},
				Locations: []Location{
					{Name: "Duisburg", Latitude: 51.43, Longitude: 6.77, RadiusKM: 40},
					{Name: "Cologne", Latitude: 50.94, Longitude: 6.96, RadiusKM: 40},
					{Name: "Düsseldorf", Latitude: 51.22, Longitude: 6.78, RadiusKM: 40},
					{Name: "Dortmund", Latitude: 51.51, Longitude: 7.47, RadiusKM: 40},
					{Name: "Essen", Latitude: 51.46, Longitude: 7.01, RadiusKM: 40},
					{Name: "Bonn", Latitude: 50.74, Longitude: 7.10, RadiusKM: 35},
					{Name: "Wuppertal", Latitude: 51.26, Longitude: 7.15, RadiusKM: 35},
					{Name: "Münster", Latitude: 51.96, Longitude: 7.63, RadiusKM: 35},
					{Name: "Bielefeld", Latitude: 52.02, Longitude: 8.53, RadiusKM: 35},
					{Name: "Aachen", Latitude: 50.78, Longitude: 6.08, RadiusKM: 35},
				},
			},
		},
	}
}
