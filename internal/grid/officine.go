package grid

// Grille d'inspection des officines de pharmacie.
func buildOfficine() Grid {
	b := &builder{}

	return Grid{
		ID:          "officine",
		Name:        "Inspection Officine",
		Code:        "IP-F-0018",
		Version:     "1.0",
		Description: "Grille d'inspection des officines de pharmacie",
		Icon:        "💊",
		Color:       "#2D5F8D",
		Sections: []Section{
			{ID: 1, Title: "Renseignements généraux", Items: []Criterion{
				b.item("REF 1.01", "Prénom et Nom du propriétaire"),
				b.item("REF 1.02", "Numéro et date de l'arrêté d'ouverture de l'officine"),
				b.item("REF 1.03", "Numéro d'inscription à l'Ordre des Pharmaciens à jour"),
				b.pre("REF 1.04", "Affichage visible du nom du pharmacien titulaire sur la devanture ?"),
				b.item("REF 1.05", "Existence d'un registre du personnel avec diplômes et contrats ?"),
			}},
			{ID: 2, Title: "Personnel", Items: []Criterion{
				b.pre("REF 2.01", "Présence effective du pharmacien titulaire pendant les heures d'ouverture ?"),
				b.item("REF 2.02", "Nombre de pharmaciens adjoints conforme au chiffre d'affaires ?"),
				b.item("REF 2.03", "Le personnel technique est-il sous le contrôle effectif d'un pharmacien ?"),
				b.item("REF 2.04", "Port de blouse et de badge d'identification par le personnel ?"),
				b.item("REF 2.05", "Remplacement du titulaire organisé conformément à la réglementation en cas d'absence ?"),
			}},
			{ID: 3, Title: "Locaux", Items: []Criterion{
				b.pre("REF 3.01", "Superficie minimale réglementaire respectée ?"),
				b.pre("REF 3.02", "Espace de confidentialité pour le conseil pharmaceutique ?"),
				b.pre("REF 3.03", "Locaux propres, éclairés et ventilés ?"),
				b.item("REF 3.04", "Point d'eau disponible et fonctionnel ?"),
				b.item("REF 3.05", "Absence d'activité commerciale étrangère à la pharmacie dans l'officine ?"),
				b.pre("REF 3.06", "Accès de l'officine indépendant de tout local d'habitation ou commerce ?"),
			}},
			{ID: 4, Title: "Rangement et conservation", Items: []Criterion{
				b.item("REF 4.01", "Médicaments rangés à l'abri de la lumière directe et de l'humidité ?"),
				b.item("REF 4.02", "Température des zones de stockage contrôlée et enregistrée ?"),
				b.item("REF 4.03", "Réfrigérateur dédié aux produits thermosensibles avec relevé de température ?"),
				b.item("REF 4.04", "Produits périmés retirés des rayons et stockés séparément en attente de destruction ?"),
				b.item("REF 4.05", "Rotation des stocks selon le principe FEFO ?"),
			}},
			{ID: 5, Title: "Gestion des stupéfiants", Items: []Criterion{
				b.item("REF 5.01", "Stupéfiants conservés dans une armoire fermée à clé, scellée ou fixée ?"),
				b.item("REF 5.02", "Ordonnancier des stupéfiants tenu à jour, coté et paraphé ?"),
				b.item("REF 5.03", "Commandes de stupéfiants effectuées sur carnet à souches réglementaire ?"),
				b.item("REF 5.04", "Balance contradictoire entre entrées, sorties et stock physique ?"),
			}},
			{ID: 6, Title: "Dispensation et traçabilité", Items: []Criterion{
				b.item("REF 6.01", "Ordonnancier général tenu à jour ?"),
				b.item("REF 6.02", "Médicaments de la liste I et II délivrés uniquement sur ordonnance ?"),
				b.item("REF 6.03", "Archivage des ordonnances conforme aux durées réglementaires ?"),
				b.item("REF 6.04", "Procédure de gestion des rappels et retraits de lots connue et appliquée ?"),
				b.item("REF 6.05", "Absence de médicaments non autorisés (circuit illicite, échantillons à la vente) ?"),
			}},
			{ID: 7, Title: "Préparations magistrales", Items: []Criterion{
				b.item("REF 7.01", "Préparatoire séparé, propre et réservé aux préparations ?"),
				b.item("REF 7.02", "Registre des préparations magistrales tenu à jour ?"),
				b.item("REF 7.03", "Matières premières étiquetées avec certificats d'analyse disponibles ?"),
				b.item("REF 7.04", "Étiquetage réglementaire des préparations délivrées ?"),
			}},
		},
	}
}
